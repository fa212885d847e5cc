package web

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

// ListState is the search state a list page link must preserve.
type ListState struct {
	Query      string
	Tag        string
	Sort       string
	Legacy     bool
	UnsafeSort bool
}

// URL returns the list route for page with the state encoded as query
// parameters. Defaults are omitted to keep links short.
func (s ListState) URL(page int) string {
	v := url.Values{}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	if s.Tag != "" {
		v.Set("tag", s.Tag)
	}
	if s.Sort != "" && s.Sort != model.SortNew {
		v.Set("sort", s.Sort)
	}
	if s.Legacy {
		v.Set("legacy", "1")
	}
	if s.UnsafeSort {
		v.Set("unsafe_sort", "1")
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return "/memos"
	}
	return "/memos?" + v.Encode()
}

// WithTag returns a copy filtered to tag, back on page one.
func (s ListState) WithTag(tag string) ListState {
	s.Tag = tag
	return s
}

func MemoURL(id int64) string   { return fmt.Sprintf("/memos/%d", id) }
func EditURL(id int64) string   { return fmt.Sprintf("/memos/%d/edit", id) }
func DeleteURL(id int64) string { return fmt.Sprintf("/memos/%d/delete", id) }

// WithNotice appends a notice code to a redirect target.
func WithNotice(target, code string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("notice", code)
	u.RawQuery = q.Encode()
	return u.String()
}
