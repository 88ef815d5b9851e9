package emailworker

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-registration/internal/observability/metrics"
	"github.com/oksasatya/user-registration/pkg/mailer"
)

var (
	ErrQueueFull  = errors.New("email queue is full")
	ErrPoolClosed = errors.New("email pool is closed")
)

// Pool sends email jobs on a fixed set of goroutines fed by a bounded queue,
// so callers never wait on mail transport I/O.
type Pool struct {
	handler Handler
	logger  *logrus.Logger
	workers int
	jobs    chan mailer.EmailJob

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewPool(h Handler, workers, queueSize int, logger *logrus.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		handler: h,
		logger:  logger,
		workers: workers,
		jobs:    make(chan mailer.EmailJob, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
}

// Dispatch enqueues job without blocking. ctx is not used for the send itself:
// the job outlives the request that created it.
func (p *Pool) Dispatch(_ context.Context, job mailer.EmailJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		metrics.EmailQueueDepth.Set(float64(len(p.jobs)))
		return nil
	default:
		metrics.EmailsTotal.WithLabelValues(string(job.Variant), "dropped").Inc()
		return ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for queued ones to drain.
// If ctx ends first, in-flight sends are cancelled and ctx.Err() is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		metrics.EmailQueueDepth.Set(float64(len(p.jobs)))
		p.run(job)
	}
}

func (p *Pool) run(job mailer.EmailJob) {
	defer func() {
		if r := recover(); r != nil && p.logger != nil {
			p.logger.WithField("to", job.To).Errorf("email worker panic: %v", r)
		}
	}()
	// Failures are logged by the handler; there is no retry.
	_ = p.handler.Process(p.ctx, job)
}
