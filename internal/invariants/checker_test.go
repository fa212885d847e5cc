package invariants

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/snowman-se/bad-memo-app/internal/api"
	"github.com/snowman-se/bad-memo-app/internal/services"
	"github.com/snowman-se/bad-memo-app/internal/store/sqlite"
	"github.com/snowman-se/bad-memo-app/internal/web"
)

// TestInvariants_InProcess runs the checker against an in-process board.
func TestInvariants_InProcess(t *testing.T) {
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st, err := sqlite.New(context.Background(), db)
	require.NoError(t, err)
	view, err := web.New(time.UTC)
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewRouter(api.RouterDeps{
		Memos: services.NewMemoService(st, 20),
		View:  view,
		Log:   zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)

	NewInvariantChecker(t, srv.URL).RunAll(t)
}
