package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

type pingStore struct {
	Store
	err error
}

func (p *pingStore) HealthPing(context.Context) error { return p.err }

type lookupStore struct {
	err error
}

func (l *lookupStore) Memos() Memos { return &lookupMemos{err: l.err} }
func (l *lookupStore) Tags() Tags   { return nil }

type lookupMemos struct {
	Memos
	err error
}

func (m *lookupMemos) GetByID(context.Context, int64) (*model.Memo, error) { return nil, m.err }

func TestStoreHealthChecker_Probe(t *testing.T) {
	tests := []struct {
		name  string
		store Store
		want  bool
	}{
		{name: "ping ok", store: &pingStore{}, want: true},
		{name: "ping fails", store: &pingStore{err: errors.New("down")}, want: false},
		{name: "lookup not found is healthy", store: &lookupStore{err: model.ErrNotFound}, want: true},
		{name: "lookup fault", store: &lookupStore{err: errors.New("disk I/O error")}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewStoreHealthChecker(tt.store, zerolog.Nop(), time.Second)
			if err := hc.probe(context.Background()); (err == nil) != tt.want {
				t.Fatalf("probe: got err %v, want healthy=%v", err, tt.want)
			}
		})
	}
}

func TestStoreHealthChecker_StartMarksHealthy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hc := NewStoreHealthChecker(&pingStore{}, zerolog.Nop(), time.Second)
	if hc.IsHealthy() {
		t.Fatalf("checker must start unhealthy")
	}
	go hc.Start(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for !hc.IsHealthy() {
		if time.Now().After(deadline) {
			t.Fatalf("checker never became healthy")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if hc.Name() != "store" {
		t.Fatalf("unexpected name %q", hc.Name())
	}
}

func TestStoreHealthChecker_TracksLastError(t *testing.T) {
	ps := &pingStore{err: errors.New("connection refused")}
	hc := NewStoreHealthChecker(ps, zerolog.Nop(), time.Second)

	hc.check(context.Background())
	if hc.IsHealthy() || hc.LastError() == nil {
		t.Fatalf("expected unhealthy with an error, got healthy=%v err=%v", hc.IsHealthy(), hc.LastError())
	}

	ps.err = nil
	hc.check(context.Background())
	if !hc.IsHealthy() || hc.LastError() != nil {
		t.Fatalf("expected recovery, got healthy=%v err=%v", hc.IsHealthy(), hc.LastError())
	}
}
