package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/snowman-se/bad-memo-app/internal/api/metrics"
	"github.com/snowman-se/bad-memo-app/internal/api/requestlog"
	respond "github.com/snowman-se/bad-memo-app/internal/api/respond"
	"github.com/snowman-se/bad-memo-app/internal/api/validate"
	"github.com/snowman-se/bad-memo-app/internal/model"
	"github.com/snowman-se/bad-memo-app/internal/services"
	"github.com/snowman-se/bad-memo-app/internal/tags"
	"github.com/snowman-se/bad-memo-app/internal/web"
)

// PageHandler serves the HTML memo board.
type PageHandler struct {
	svc  *services.MemoService
	view *web.Renderer
	now  func() time.Time
}

func NewPageHandler(svc *services.MemoService, view *web.Renderer) *PageHandler {
	return &PageHandler{svc: svc, view: view, now: time.Now}
}

// Home GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/memos", http.StatusFound)
}

// List GET /memos
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(r.Context(), listInput(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cloud, err := h.svc.ListTags(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.view.List(w, web.ListView{
		State: web.ListState{
			Query:      out.Query,
			Tag:        out.Tag,
			Sort:       out.Sort,
			Legacy:     out.Legacy,
			UnsafeSort: out.UnsafeSort,
		},
		Page:   out.Page,
		Tags:   cloud,
		Notice: h.notice(r),
	})
}

// Show GET /memos/{id}
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	h.view.Detail(w, web.DetailView{Memo: m, Notice: h.notice(r)})
}

// New GET /memos/new
func (h *PageHandler) New(w http.ResponseWriter, r *http.Request) {
	h.view.Form(w, web.FormView{})
}

// Create POST /memos/new
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.formInput(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Create(r.Context(), in)
	if err != nil {
		if verr := validationError(err); verr != nil {
			h.view.Form(w, web.FormView{Title: in.Title, Body: in.Body, Tags: in.Tags, Error: verr.Message})
			return
		}
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, web.MemoURL(m.ID), web.NoticeCreated)
}

// Edit GET /memos/{id}/edit
func (h *PageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	h.view.Form(w, web.FormView{Memo: m, Title: m.Title, Body: m.Body, Tags: tags.Join(m.Tags)})
}

// Update POST /memos/{id}/edit
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.view.NotFound(w)
		return
	}
	in, ok := h.formInput(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		if verr := validationError(err); verr != nil {
			h.view.Form(w, web.FormView{Memo: &model.Memo{ID: id}, Title: in.Title, Body: in.Body, Tags: in.Tags, Error: verr.Message})
			return
		}
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, web.MemoURL(m.ID), web.NoticeUpdated)
}

// ConfirmDelete GET /memos/{id}/delete
func (h *PageHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	h.view.Confirm(w, web.ConfirmView{Memo: m})
}

// Delete POST /memos/{id}/delete
// Always redirects to the list; a failed delete is reported as a notice.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := web.NoticeDeleted
	id, err := services.ParseID(mux.Vars(r)["id"])
	if err == nil {
		err = h.svc.Delete(r.Context(), id)
	}
	if err != nil {
		code = web.NoticeDeleteFailed
		if !errors.Is(err, model.ErrNotFound) {
			requestlog.FromRequest(r).Error().Err(err).Int64("memo_id", id).Msg("delete failed")
		}
	}
	h.redirect(w, r, "/memos", code)
}

// NotFound renders the 404 page for unmatched routes.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if respond.WantsJSON(r) {
		respond.WriteNotFound(w, "no such route")
		return
	}
	h.view.Error(w, http.StatusNotFound, "Page not found")
}

// MethodNotAllowed answers routes hit with a method they do not accept.
func (h *PageHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if respond.WantsJSON(r) {
		respond.WriteError(w, http.StatusMethodNotAllowed, "")
		return
	}
	h.view.Error(w, http.StatusMethodNotAllowed, "")
}

func (h *PageHandler) load(w http.ResponseWriter, r *http.Request) (*model.Memo, bool) {
	id, err := services.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.view.NotFound(w)
		return nil, false
	}
	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return m, true
}

func (h *PageHandler) formInput(w http.ResponseWriter, r *http.Request) (services.MemoInput, bool) {
	if err := r.ParseForm(); err != nil {
		h.view.Error(w, http.StatusBadRequest, "Malformed form")
		return services.MemoInput{}, false
	}
	return services.MemoInput{
		Title: r.PostForm.Get("title"),
		Body:  r.PostForm.Get("body"),
		Tags:  r.PostForm.Get("tags"),
	}, true
}

// redirect sends the browser to target with a one-shot notice.
func (h *PageHandler) redirect(w http.ResponseWriter, r *http.Request, target, code string) {
	metrics.RecordNotice(code)
	respond.Redirect(w, r, web.WithNotice(target, code))
}

func (h *PageHandler) notice(r *http.Request) *web.Notice {
	return web.NoticeFor(r.URL.Query().Get("notice"), h.now(), h.view.Location())
}

func (h *PageHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrNotFound) {
		h.view.NotFound(w)
		return
	}
	requestlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	h.view.Error(w, http.StatusInternalServerError, "")
}

func listInput(r *http.Request) services.ListInput {
	q := r.URL.Query()
	return services.ListInput{
		Query:      q.Get("q"),
		Tag:        q.Get("tag"),
		Sort:       q.Get("sort"),
		Page:       q.Get("page"),
		Legacy:     q.Get("legacy") == "1",
		UnsafeSort: q.Get("unsafe_sort") == "1",
	}
}

func validationError(err error) *validate.Error {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return verr
	}
	return nil
}
