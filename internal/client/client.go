// Package client is a small JSON client for the memo board API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/go-resty/resty/v2"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

// Re-export the shared sentinels so callers compare against a single symbol.
var (
	ErrNotFound   = model.ErrNotFound
	ErrValidation = model.ErrValidation
)

// Memo mirrors the API memo representation.
type Memo struct {
	ID        int64           `json:"id" yaml:"id"`
	Title     string          `json:"title" yaml:"title"`
	Body      string          `json:"body" yaml:"body"`
	CreatedAt strfmt.DateTime `json:"createdAt" yaml:"createdAt"`
	Tags      []string        `json:"tags" yaml:"tags"`
}

type MemoList struct {
	Memos       []Memo `json:"memos" yaml:"memos"`
	Count       int    `json:"count" yaml:"count"`
	Page        int    `json:"page" yaml:"page"`
	NumPages    int    `json:"numPages" yaml:"numPages"`
	HasNext     bool   `json:"hasNext" yaml:"hasNext"`
	HasPrevious bool   `json:"hasPrevious" yaml:"hasPrevious"`
}

type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type HealthStatus struct {
	Status     string          `json:"status" yaml:"status"`
	Timestamp  string          `json:"timestamp" yaml:"timestamp"`
	Components map[string]bool `json:"components,omitempty" yaml:"components,omitempty"`
}

// ListParams filters a memo listing. Zero values are omitted.
type ListParams struct {
	Query string
	Tag   string
	Sort  string
	Page  int
}

// MemoInput is the body of create and update calls.
type MemoInput struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// Unwrap lets callers use errors.Is with ErrNotFound and ErrValidation.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrValidation
	default:
		return nil
	}
}

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithHTTPTimeout bounds every request. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.SetTimeout(d)
		return nil
	}
}

// WithDebug logs requests and responses through resty.
func WithDebug(enabled bool) Option {
	return func(c *Client) error {
		c.http.SetDebug(enabled)
		return nil
	}
}

type Client struct {
	http *resty.Client
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json").
			SetTimeout(30 * time.Second),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) ListMemos(ctx context.Context, p ListParams) (*MemoList, error) {
	req := c.http.R().SetContext(ctx)
	if p.Query != "" {
		req.SetQueryParam("q", p.Query)
	}
	if p.Tag != "" {
		req.SetQueryParam("tag", p.Tag)
	}
	if p.Sort != "" {
		req.SetQueryParam("sort", p.Sort)
	}
	if p.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(p.Page))
	}
	var out MemoList
	if err := c.do(req.SetResult(&out), http.MethodGet, "/api/memos"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMemo(ctx context.Context, id int64) (*Memo, error) {
	var out Memo
	if err := c.do(c.http.R().SetContext(ctx).SetResult(&out), http.MethodGet, memoPath(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMemo(ctx context.Context, in MemoInput) (*Memo, error) {
	var out Memo
	req := c.http.R().SetContext(ctx).SetBody(&in).SetResult(&out)
	if err := c.do(req, http.MethodPost, "/api/memos"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMemo(ctx context.Context, id int64, in MemoInput) (*Memo, error) {
	var out Memo
	req := c.http.R().SetContext(ctx).SetBody(&in).SetResult(&out)
	if err := c.do(req, http.MethodPut, memoPath(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMemo(ctx context.Context, id int64) error {
	return c.do(c.http.R().SetContext(ctx), http.MethodDelete, memoPath(id))
}

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var out struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.do(c.http.R().SetContext(ctx).SetResult(&out), http.MethodGet, "/api/tags"); err != nil {
		return nil, err
	}
	return out.Tags, nil
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(c.http.R().SetContext(ctx).SetResult(&out), http.MethodGet, "/api/health"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *resty.Request, method, path string) error {
	apiErr := &APIError{}
	resp, err := req.SetError(apiErr).Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return apiErr
	}
	return nil
}

func memoPath(id int64) string {
	return "/api/memos/" + strconv.FormatInt(id, 10)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
