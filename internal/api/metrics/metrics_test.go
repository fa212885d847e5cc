package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/things/{id:[0-9]+}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	ok := requestsTotal.WithLabelValues(http.MethodGet, "/things/{id:[0-9]+}", "418")
	before := testutil.ToFloat64(ok)
	for _, path := range []string{"/things/1", "/things/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, before+2, testutil.ToFloat64(ok))
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/plain", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("hi")) })

	c := requestsTotal.WithLabelValues(http.MethodGet, "/plain", "200")
	before := testutil.ToFloat64(c)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordNotice(t *testing.T) {
	c := noticesTotal.WithLabelValues("created")
	before := testutil.ToFloat64(c)
	RecordNotice("created")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestHandler_Exposes(t *testing.T) {
	RecordNotice("deleted")
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `memo_board_memo_writes_total{notice="deleted"}`)
}
