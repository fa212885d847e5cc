// Package web renders the HTML pages of the memo board from embedded
// templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/snowman-se/bad-memo-app/internal/model"
	"github.com/snowman-se/bad-memo-app/internal/paging"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageList    = "list.html"
	pageDetail  = "detail.html"
	pageForm    = "form.html"
	pageConfirm = "confirm.html"
	pageError   = "error.html"
)

// ListView is the context for the memo list page.
type ListView struct {
	State  ListState
	Page   *model.MemoPage
	Tags   []*model.Tag
	Notice *Notice
}

func (v ListView) cursor() paging.Page {
	return paging.Page{
		Number:      v.Page.Number,
		NumPages:    v.Page.NumPages,
		Total:       v.Page.Total,
		HasNext:     v.Page.HasNext,
		HasPrevious: v.Page.HasPrevious,
	}
}

func (v ListView) PrevURL() string { return v.State.URL(v.cursor().PreviousNumber()) }
func (v ListView) NextURL() string { return v.State.URL(v.cursor().NextNumber()) }
func (v ListView) TagURL(name string) string {
	return v.State.WithTag(name).URL(1)
}
func (v ListView) ClearTagURL() string { return v.State.WithTag("").URL(1) }

type DetailView struct {
	Memo   *model.Memo
	Notice *Notice
}

// FormView backs both the create and the edit form. Memo is nil when
// creating.
type FormView struct {
	Memo  *model.Memo
	Title string
	Body  string
	Tags  string
	Error string
}

func (v FormView) Editing() bool { return v.Memo != nil }

func (v FormView) Action() string {
	if v.Memo == nil {
		return "/memos/new"
	}
	return EditURL(v.Memo.ID)
}

type ConfirmView struct {
	Memo *model.Memo
}

type ErrorView struct {
	Status  int
	Message string
}

// Renderer executes the page templates. It is safe for concurrent use.
type Renderer struct {
	loc   *time.Location
	pages map[string]*template.Template
}

// New parses the embedded templates. Timestamps render in loc.
func New(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := &Renderer{loc: loc, pages: map[string]*template.Template{}}
	funcs := template.FuncMap{
		"datetime":  func(t time.Time) string { return FormatTime(t, loc) },
		"joinTags":  func(names []string) string { return strings.Join(names, ", ") },
		"memoURL":   MemoURL,
		"editURL":   EditURL,
		"deleteURL": DeleteURL,
	}
	for _, page := range []string{pageList, pageDetail, pageForm, pageConfirm, pageError} {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Location is the zone timestamps are rendered in.
func (r *Renderer) Location() *time.Location { return r.loc }

func (r *Renderer) List(w http.ResponseWriter, v ListView) {
	r.render(w, http.StatusOK, pageList, v)
}

func (r *Renderer) Detail(w http.ResponseWriter, v DetailView) {
	r.render(w, http.StatusOK, pageDetail, v)
}

// Form renders the create/edit form. Validation errors re-render with 200.
func (r *Renderer) Form(w http.ResponseWriter, v FormView) {
	r.render(w, http.StatusOK, pageForm, v)
}

func (r *Renderer) Confirm(w http.ResponseWriter, v ConfirmView) {
	r.render(w, http.StatusOK, pageConfirm, v)
}

// Error renders the error page with status. An empty message falls back to
// the status text.
func (r *Renderer) Error(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	r.render(w, status, pageError, ErrorView{Status: status, Message: message})
}

func (r *Renderer) NotFound(w http.ResponseWriter) {
	r.Error(w, http.StatusNotFound, "Memo not found")
}

func (r *Renderer) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := r.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Str("template", page).Msg("Failed to render template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
