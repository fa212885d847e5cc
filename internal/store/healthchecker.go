package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/snowman-se/bad-memo-app/internal/health"
	"github.com/snowman-se/bad-memo-app/internal/model"
)

// StoreHealthChecker pings the memo database on a fixed interval and caches
// the outcome for /api/health and the startup gate.
type StoreHealthChecker struct {
	store        Store
	log          zerolog.Logger
	probeTimeout time.Duration

	healthy atomic.Bool
	mu      sync.Mutex
	lastErr error
}

// NewStoreHealthChecker returns a checker that reports unhealthy until its
// first successful probe.
func NewStoreHealthChecker(store Store, log zerolog.Logger, probeTimeout time.Duration) *StoreHealthChecker {
	return &StoreHealthChecker{store: store, log: log, probeTimeout: probeTimeout}
}

func (hc *StoreHealthChecker) Name() string { return "store" }

// IsHealthy returns the cached result of the last probe.
func (hc *StoreHealthChecker) IsHealthy() bool { return hc.healthy.Load() }

// LastError is the error of the most recent failed probe, nil once healthy.
func (hc *StoreHealthChecker) LastError() error {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.lastErr
}

// Start probes immediately and then every interval until ctx is done.
func (hc *StoreHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hc.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hc.check(ctx)
		}
	}
}

// check runs one probe and logs only when the cached state flips.
func (hc *StoreHealthChecker) check(ctx context.Context) {
	err := hc.probe(ctx)

	hc.mu.Lock()
	hc.lastErr = err
	hc.mu.Unlock()

	was := hc.healthy.Swap(err == nil)
	switch {
	case err != nil && was:
		hc.log.Error().Stack().Err(err).Str("checker", hc.Name()).Msg("memo store became unreachable")
	case err != nil:
		hc.log.Debug().Err(err).Str("checker", hc.Name()).Msg("memo store still unreachable")
	case !was:
		hc.log.Info().Str("checker", hc.Name()).Msg("memo store reachable")
	}
}

// probe pings the database when the store can, and otherwise looks up a memo
// id that never exists; a not-found answer proves the store responds.
func (hc *StoreHealthChecker) probe(ctx context.Context) error {
	if p, ok := hc.store.(health.HealthPinger); ok {
		return health.Ping(ctx, p, hc.probeTimeout)
	}
	timeout := hc.probeTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := hc.store.Memos().GetByID(ctx, 0); err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	return nil
}
