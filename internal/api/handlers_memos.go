package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/gorilla/mux"

	respond "github.com/snowman-se/bad-memo-app/internal/api/respond"
	"github.com/snowman-se/bad-memo-app/internal/model"
	"github.com/snowman-se/bad-memo-app/internal/services"
	"github.com/snowman-se/bad-memo-app/internal/tags"
)

// MemoHandler is the JSON transport over MemoService.
type MemoHandler struct {
	svc *services.MemoService
}

func NewMemoHandler(svc *services.MemoService) *MemoHandler { return &MemoHandler{svc: svc} }

// MemoResponse is the wire form of a memo.
type MemoResponse struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	CreatedAt strfmt.DateTime `json:"createdAt"`
	Tags      []string        `json:"tags"`
}

type ListMemosResponse struct {
	Memos       []MemoResponse `json:"memos"`
	Count       int            `json:"count"`
	Page        int            `json:"page"`
	NumPages    int            `json:"numPages"`
	HasNext     bool           `json:"hasNext"`
	HasPrevious bool           `json:"hasPrevious"`
	Query       string         `json:"q,omitempty"`
	Tag         string         `json:"tag,omitempty"`
	Sort        string         `json:"sort"`
}

// MemoRequest is the body of create and update calls.
type MemoRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

func toMemoResponse(m *model.Memo) MemoResponse {
	t := m.Tags
	if t == nil {
		t = []string{}
	}
	return MemoResponse{
		ID:        m.ID,
		Title:     m.Title,
		Body:      m.Body,
		CreatedAt: strfmt.DateTime(m.CreatedAt.UTC().Truncate(time.Millisecond)),
		Tags:      t,
	}
}

// ListMemos GET /api/memos
func (h *MemoHandler) ListMemos(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(r.Context(), listInput(r))
	if err != nil {
		respond.WriteStoreError(w, r, err)
		return
	}
	resp := ListMemosResponse{
		Memos:       make([]MemoResponse, 0, len(out.Page.Memos)),
		Count:       out.Page.Total,
		Page:        out.Page.Number,
		NumPages:    out.Page.NumPages,
		HasNext:     out.Page.HasNext,
		HasPrevious: out.Page.HasPrevious,
		Query:       out.Query,
		Tag:         out.Tag,
		Sort:        out.Sort,
	}
	for _, m := range out.Page.Memos {
		resp.Memos = append(resp.Memos, toMemoResponse(m))
	}
	respond.WriteJSON(w, http.StatusOK, resp)
}

// CreateMemo POST /api/memos
func (h *MemoHandler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeMemo(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Create(r.Context(), in)
	if err != nil {
		respond.WriteStoreError(w, r, err)
		return
	}
	w.Header().Set("Location", memoAPIPath(m.ID))
	respond.WriteJSON(w, http.StatusCreated, toMemoResponse(m))
}

// GetMemo GET /api/memos/{id}
func (h *MemoHandler) GetMemo(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respond.WriteStoreError(w, r, err)
		return
	}
	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.WriteStoreError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toMemoResponse(m))
}

// UpdateMemo PUT /api/memos/{id}
func (h *MemoHandler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respond.WriteStoreError(w, r, err)
		return
	}
	in, ok := decodeMemo(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		respond.WriteStoreError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toMemoResponse(m))
}

// DeleteMemo DELETE /api/memos/{id}
func (h *MemoHandler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(mux.Vars(r)["id"])
	if err == nil {
		err = h.svc.Delete(r.Context(), id)
	}
	if err != nil {
		respond.WriteStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTags GET /api/tags
func (h *MemoHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	ts, err := h.svc.ListTags(r.Context())
	if err != nil {
		respond.WriteStoreError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"tags": ts, "count": len(ts)})
}

func decodeMemo(w http.ResponseWriter, r *http.Request) (services.MemoInput, bool) {
	var req MemoRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return services.MemoInput{}, false
	}
	for _, name := range req.Tags {
		if strings.Contains(name, ",") {
			respond.WriteBadRequest(w, "tag names cannot contain commas")
			return services.MemoInput{}, false
		}
	}
	return services.MemoInput{Title: req.Title, Body: req.Body, Tags: tags.Join(req.Tags)}, true
}

func memoAPIPath(id int64) string {
	return "/api/memos/" + strconv.FormatInt(id, 10)
}
