// Package dispatch runs event handlers on a bounded pool of workers so the
// gateway read loop never waits on a slow command.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/keepmind9/rinfobot/internal/logger"
	"github.com/keepmind9/rinfobot/pkg/constants"
	"github.com/sirupsen/logrus"
)

var (
	// ErrQueueFull is returned by Submit when every queue slot is taken
	ErrQueueFull = errors.New("dispatch queue is full")
	// ErrPoolStopped is returned by Submit after Stop
	ErrPoolStopped = errors.New("dispatch pool is stopped")
)

// Job is one unit of event handling. ctx is cancelled when the handler
// timeout elapses or the pool is torn down.
type Job func(ctx context.Context)

type task struct {
	kind string
	run  Job
}

// Config controls pool sizing
type Config struct {
	Workers        int
	QueueSize      int
	HandlerTimeout time.Duration
}

// Pool is a fixed set of workers reading from a buffered queue
type Pool struct {
	mu      sync.RWMutex
	queue   chan task
	closed  bool
	started bool
	workers int
	timeout time.Duration
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPool creates a pool. Zero values fall back to the package defaults.
func NewPool(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = constants.DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = constants.DefaultQueueSize
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = constants.DefaultHandlerTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		queue:   make(chan task, cfg.QueueSize),
		workers: cfg.Workers,
		timeout: cfg.HandlerTimeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	logger.WithFields(logrus.Fields{
		"workers":    p.workers,
		"queue_size": cap(p.queue),
		"timeout":    p.timeout.String(),
	}).Info("dispatch-pool-started")
}

// Submit enqueues a job without blocking. kind labels the job in logs and metrics.
func (p *Pool) Submit(kind string, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		jobsDropped.WithLabelValues(kind).Inc()
		return ErrPoolStopped
	}

	select {
	case p.queue <- task{kind: kind, run: job}:
		jobsSubmitted.WithLabelValues(kind).Inc()
		return nil
	default:
		jobsDropped.WithLabelValues(kind).Inc()
		logger.WithFields(logrus.Fields{
			"kind":       kind,
			"queue_size": cap(p.queue),
		}).Warn("dispatch-queue-full-job-dropped")
		return ErrQueueFull
	}
}

// Stop rejects new jobs, lets queued and running jobs finish, and returns
// ctx.Err() if they do not finish before ctx is done.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		logger.Info("dispatch-pool-stopped")
		return nil
	case <-ctx.Done():
		p.cancel()
		logger.WithField("error", ctx.Err()).Warn("dispatch-pool-stop-timed-out")
		return ctx.Err()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.queue {
		p.run(t)
	}
}

func (p *Pool) run(t task) {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	start := time.Now()
	jobsInFlight.Inc()
	defer func() {
		jobsInFlight.Dec()
		jobDuration.WithLabelValues(t.kind).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			jobsPanicked.WithLabelValues(t.kind).Inc()
			logger.WithFields(logrus.Fields{
				"kind":  t.kind,
				"panic": r,
			}).Error("dispatch-job-panic-recovered")
		}
	}()

	t.run(ctx)
}
