// Package status drives a pending booking to a terminal UI state by bounded
// polling. One resolver owns one checkout session's state; nothing here is
// shared across sessions.
package status

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"trip-booking/internal/data/entity"
	"trip-booking/pkg/utils"
)

type State string

const (
	StateLoading State = "loading"
	StatePending State = "pending"
	StatePaid    State = "paid"
	StateFailed  State = "failed"
)

// Terminal reports whether the state is sticky: once reached it never
// changes, even if a stale poll response arrives late.
func (s State) Terminal() bool {
	return s == StatePaid || s == StateFailed
}

// FetchFunc re-reads the booking's payment status.
type FetchFunc func(ctx context.Context) (entity.PaymentStatus, error)

// Resolver is a single-session cooperative polling machine:
// loading -> pending -> (paid | failed), or pending exhausted after the
// attempt cap. State is owned here and exposed through Get/Subscribe, never
// through package globals.
type Resolver struct {
	fetch    FetchFunc
	interval time.Duration
	maxPolls int
	log      *zap.Logger

	mu      sync.Mutex
	state   State
	updates chan State
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewResolverFromConfig builds a resolver tuned by the service configuration.
func NewResolverFromConfig(cfg utils.StatusConfig, fetch FetchFunc, log *zap.Logger) *Resolver {
	return NewResolver(fetch, time.Duration(cfg.PollIntervalSeconds)*time.Second, cfg.MaxPollAttempts, log)
}

func NewResolver(fetch FetchFunc, interval time.Duration, maxPolls int, log *zap.Logger) *Resolver {
	return &Resolver{
		fetch:    fetch,
		interval: interval,
		maxPolls: maxPolls,
		log:      log.With(zap.String("component", "status_resolver")),
		state:    StateLoading,
		updates:  make(chan State, 8),
		done:     make(chan struct{}),
	}
}

// Get returns the current state.
func (r *Resolver) Get() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe returns the state-change stream. The channel closes when the
// resolver stops, after the final state was delivered.
func (r *Resolver) Subscribe() <-chan State {
	return r.updates
}

// Done closes when the resolver has stopped polling for any reason.
func (r *Resolver) Done() <-chan struct{} {
	return r.done
}

// Start begins polling. Safe to cancel via ctx or Stop; no timer fires after
// either.
func (r *Resolver) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	go r.run(ctx)
}

// Stop cancels polling. Idempotent.
func (r *Resolver) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *Resolver) run(ctx context.Context) {
	defer close(r.done)
	defer close(r.updates)

	// First fetch resolves loading -> ready immediately.
	if !r.poll(ctx) {
		return
	}

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for attempt := 1; attempt <= r.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if !r.poll(ctx) {
			return
		}
		timer.Reset(r.interval)
	}

	r.log.Info("Poll attempts exhausted, leaving booking pending",
		zap.Int("max_polls", r.maxPolls),
	)
}

// poll fetches once and applies the result. Returns false when polling must
// stop (terminal state reached or context cancelled). The terminal guard is
// on the state itself, not on timer bookkeeping, so a late stale response can
// never resurrect a finished session.
func (r *Resolver) poll(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	status, err := r.fetch(ctx)
	if err != nil {
		r.log.Warn("Status fetch failed, staying in current state", zap.Error(err))
		return true
	}

	next := StatePending
	switch status {
	case entity.PaymentStatusPaid:
		next = StatePaid
	case entity.PaymentStatusFailed:
		next = StateFailed
	}

	r.mu.Lock()
	if r.state.Terminal() {
		r.mu.Unlock()
		return false
	}
	changed := r.state != next
	r.state = next
	r.mu.Unlock()

	if changed {
		select {
		case r.updates <- next:
		default:
			// Subscriber lagging; Get() still reflects the truth.
		}
	}

	return !next.Terminal()
}
