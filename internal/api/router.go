package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/snowman-se/bad-memo-app/internal/api/metrics"
	"github.com/snowman-se/bad-memo-app/internal/api/recovery"
	"github.com/snowman-se/bad-memo-app/internal/api/requestlog"
	"github.com/snowman-se/bad-memo-app/internal/services"
	"github.com/snowman-se/bad-memo-app/internal/web"
)

const idPattern = "{id:[0-9]+}"

// RouterDeps groups what the router needs to build its handlers.
type RouterDeps struct {
	Memos  *services.MemoService
	View   *web.Renderer
	Health *HealthHandler
	Log    zerolog.Logger
}

// NewRouter wires the HTML board and the JSON API. The returned handler logs
// every request, including ones that match no route.
func NewRouter(d RouterDeps) http.Handler {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)
	router.Use(metrics.Middleware)

	pages := NewPageHandler(d.Memos, d.View)
	memos := NewMemoHandler(d.Memos)
	health := d.Health
	if health == nil {
		health = NewHealthHandler(nil, nil)
	}

	router.NotFoundHandler = http.HandlerFunc(pages.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(pages.MethodNotAllowed)

	// Health
	router.HandleFunc("/api/health", health.CheckHealth).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// JSON API
	router.HandleFunc("/api/memos", memos.ListMemos).Methods("GET")
	router.HandleFunc("/api/memos", memos.CreateMemo).Methods("POST")
	router.HandleFunc("/api/memos/"+idPattern, memos.GetMemo).Methods("GET")
	router.HandleFunc("/api/memos/"+idPattern, memos.UpdateMemo).Methods("PUT")
	router.HandleFunc("/api/memos/"+idPattern, memos.DeleteMemo).Methods("DELETE")
	router.HandleFunc("/api/tags", memos.ListTags).Methods("GET")

	// HTML board
	router.HandleFunc("/", pages.Home).Methods("GET")
	router.HandleFunc("/memos", pages.List).Methods("GET")
	router.HandleFunc("/memos/new", pages.New).Methods("GET")
	router.HandleFunc("/memos/new", pages.Create).Methods("POST")
	router.HandleFunc("/memos/"+idPattern, pages.Show).Methods("GET")
	router.HandleFunc("/memos/"+idPattern+"/edit", pages.Edit).Methods("GET")
	router.HandleFunc("/memos/"+idPattern+"/edit", pages.Update).Methods("POST")
	// Deletion needs the POST from the confirmation page; GET only renders it.
	router.HandleFunc("/memos/"+idPattern+"/delete", pages.ConfirmDelete).Methods("GET")
	router.HandleFunc("/memos/"+idPattern+"/delete", pages.Delete).Methods("POST")

	return requestlog.Middleware(d.Log)(router)
}
