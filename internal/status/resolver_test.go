package status

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trip-booking/internal/data/entity"
	"trip-booking/pkg/utils"
)

const tick = 5 * time.Millisecond

// scriptFetcher returns the scripted statuses in order, repeating the last
// one forever, and counts calls.
func scriptFetcher(script ...entity.PaymentStatus) (FetchFunc, *atomic.Int64) {
	var calls atomic.Int64
	return func(ctx context.Context) (entity.PaymentStatus, error) {
		n := calls.Add(1)
		i := int(n) - 1
		if i >= len(script) {
			i = len(script) - 1
		}
		return script[i], nil
	}, &calls
}

func waitDone(t *testing.T, r *Resolver) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("resolver did not stop in time")
	}
}

func TestResolver_PendingToPaid(t *testing.T) {
	fetch, _ := scriptFetcher(entity.PaymentStatusPending, entity.PaymentStatusPending, entity.PaymentStatusPaid)
	r := NewResolver(fetch, tick, 10, zap.NewNop())

	r.Start(context.Background())
	waitDone(t, r)

	assert.Equal(t, StatePaid, r.Get())
}

func TestResolver_FailedIsTerminal(t *testing.T) {
	fetch, calls := scriptFetcher(entity.PaymentStatusFailed)
	r := NewResolver(fetch, tick, 10, zap.NewNop())

	r.Start(context.Background())
	waitDone(t, r)

	assert.Equal(t, StateFailed, r.Get())
	assert.Equal(t, int64(1), calls.Load(), "no polling after a terminal state")
}

func TestResolver_TerminalIsSticky(t *testing.T) {
	// A stale pending response after paid must not resurrect the session.
	fetch, _ := scriptFetcher(entity.PaymentStatusPaid, entity.PaymentStatusPending)
	r := NewResolver(fetch, tick, 10, zap.NewNop())

	r.Start(context.Background())
	waitDone(t, r)
	require.Equal(t, StatePaid, r.Get())

	time.Sleep(5 * tick)
	assert.Equal(t, StatePaid, r.Get())
}

func TestResolver_AttemptCapLeavesPending(t *testing.T) {
	fetch, calls := scriptFetcher(entity.PaymentStatusPending)
	r := NewResolver(fetch, tick, 3, zap.NewNop())

	r.Start(context.Background())
	waitDone(t, r)

	assert.Equal(t, StatePending, r.Get())
	// Initial fetch plus the bounded polls, nothing more.
	assert.Equal(t, int64(4), calls.Load())
}

func TestResolver_SubscribeSeesTransitions(t *testing.T) {
	fetch, _ := scriptFetcher(entity.PaymentStatusPending, entity.PaymentStatusPaid)
	r := NewResolver(fetch, tick, 10, zap.NewNop())

	r.Start(context.Background())

	var seen []State
	for s := range r.Subscribe() {
		seen = append(seen, s)
	}

	assert.Equal(t, []State{StatePending, StatePaid}, seen)
}

func TestResolver_StopCancelsPolling(t *testing.T) {
	fetch, calls := scriptFetcher(entity.PaymentStatusPending)
	r := NewResolver(fetch, 50*time.Millisecond, 100, zap.NewNop())

	r.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	r.Stop()
	waitDone(t, r)

	n := calls.Load()
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, n, calls.Load(), "no fetches after Stop")
	assert.Equal(t, StatePending, r.Get())
}

func TestResolver_FetchErrorKeepsPolling(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (entity.PaymentStatus, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("transient")
		}
		return entity.PaymentStatusPaid, nil
	}
	r := NewResolver(fetch, tick, 10, zap.NewNop())

	r.Start(context.Background())
	waitDone(t, r)

	assert.Equal(t, StatePaid, r.Get())
}

func TestNewResolverFromConfig(t *testing.T) {
	r := NewResolverFromConfig(utils.StatusConfig{
		PollIntervalSeconds: 3,
		MaxPollAttempts:     10,
	}, func(ctx context.Context) (entity.PaymentStatus, error) {
		return entity.PaymentStatusPending, nil
	}, zap.NewNop())

	assert.Equal(t, 3*time.Second, r.interval)
	assert.Equal(t, 10, r.maxPolls)
	assert.Equal(t, StateLoading, r.Get())
}
