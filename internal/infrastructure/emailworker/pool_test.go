package emailworker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-registration/pkg/mailer"
)

type recordHandler struct {
	mu   sync.Mutex
	seen []string
}

func (h *recordHandler) Process(_ context.Context, job mailer.EmailJob) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, job.To)
	return nil
}

type blockingHandler struct {
	started chan struct{}
	gate    chan struct{}
}

func (h *blockingHandler) Process(ctx context.Context, _ mailer.EmailJob) error {
	h.started <- struct{}{}
	select {
	case <-h.gate:
	case <-ctx.Done():
	}
	return nil
}

func TestPool_DrainsQueueOnShutdown(t *testing.T) {
	h := &recordHandler{}
	p := NewPool(h, 2, 10, nil)
	p.Start()

	for _, to := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.NoError(t, p.Dispatch(context.Background(), mailer.EmailJob{To: to}))
	}
	require.NoError(t, p.Shutdown(context.Background()))

	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com", "c@x.com"}, h.seen)
}

func TestPool_QueueFull(t *testing.T) {
	h := &blockingHandler{started: make(chan struct{}, 1), gate: make(chan struct{})}
	p := NewPool(h, 1, 1, nil)
	p.Start()

	require.NoError(t, p.Dispatch(context.Background(), mailer.EmailJob{To: "a@x.com"}))
	<-h.started
	require.NoError(t, p.Dispatch(context.Background(), mailer.EmailJob{To: "b@x.com"}))
	assert.ErrorIs(t, p.Dispatch(context.Background(), mailer.EmailJob{To: "c@x.com"}), ErrQueueFull)

	close(h.gate)
	go func() {
		for range h.started {
		}
	}()
	require.NoError(t, p.Shutdown(context.Background()))
	close(h.started)
}

func TestPool_DispatchAfterShutdown(t *testing.T) {
	p := NewPool(&recordHandler{}, 1, 1, nil)
	p.Start()
	require.NoError(t, p.Shutdown(context.Background()))

	assert.ErrorIs(t, p.Dispatch(context.Background(), mailer.EmailJob{To: "a@x.com"}), ErrPoolClosed)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_ShutdownDeadlineCancelsInFlight(t *testing.T) {
	h := &blockingHandler{started: make(chan struct{}, 1), gate: make(chan struct{})}
	p := NewPool(h, 1, 0, nil)
	p.Start()

	require.Eventually(t, func() bool {
		return p.Dispatch(context.Background(), mailer.EmailJob{To: "a@x.com"}) == nil
	}, time.Second, 5*time.Millisecond)
	<-h.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)
}
