// Package dispatch runs detached jobs off the request path.
//
// A job handed to Go runs on its own context with a fixed timeout, so the
// request that queued it can finish (and be cancelled) independently. Job
// outcomes are reported over an internal channel and logged; nothing waits on
// them.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Job is a unit of detached work.
type Job func(ctx context.Context) error

// Config tunes the dispatcher.
type Config struct {
	Workers    int           // concurrent jobs (e.g. 2)
	QueueSize  int           // buffered jobs before Go starts rejecting
	JobTimeout time.Duration // per-job deadline
	// OnResult, if set, is called by the reporter after each job finishes.
	OnResult func(name string, err error)
}

func DefaultConfig() Config {
	return Config{
		Workers:    2,
		QueueSize:  64,
		JobTimeout: 30 * time.Second,
	}
}

// ErrClosed is returned by Close when called twice.
var ErrClosed = errors.New("dispatcher closed")

type namedJob struct {
	name string
	run  Job
}

type result struct {
	name string
	err  error
	dur  time.Duration
}

// Dispatcher is a small fixed worker pool.
type Dispatcher struct {
	cfg    Config
	logger *slog.Logger

	jobs    chan namedJob
	results chan result

	mu     sync.RWMutex
	closed bool

	workers  sync.WaitGroup
	reporter chan struct{}
}

// New starts the workers and the result reporter.
func New(cfg Config, logger *slog.Logger) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		cfg:      cfg,
		logger:   logger.With("component", "Dispatcher"),
		jobs:     make(chan namedJob, cfg.QueueSize),
		results:  make(chan result, cfg.QueueSize),
		reporter: make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		d.workers.Add(1)
		go d.work()
	}
	go d.report()
	return d
}

// Go queues job without blocking. It returns false if the queue is full or the
// dispatcher is closed; the job is then dropped and a warning logged.
func (d *Dispatcher) Go(name string, job Job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("job rejected: dispatcher closed", "job", name)
		return false
	}
	select {
	case d.jobs <- namedJob{name: name, run: job}:
		return true
	default:
		d.logger.Warn("job rejected: queue full", "job", name, "queue", cap(d.jobs))
		return false
	}
}

func (d *Dispatcher) work() {
	defer d.workers.Done()
	for j := range d.jobs {
		start := time.Now()
		err := d.run(j)
		d.results <- result{name: j.name, err: err, dur: time.Since(start)}
	}
}

func (d *Dispatcher) run(j namedJob) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.JobTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("job panicked", "job", j.name, "panic", r)
			err = errors.New("job panicked")
		}
	}()
	return j.run(ctx)
}

func (d *Dispatcher) report() {
	defer close(d.reporter)
	for r := range d.results {
		if r.err != nil {
			d.logger.Warn("job failed", "job", r.name, "dur", r.dur, "error", r.err)
		} else {
			d.logger.Info("job done", "job", r.name, "dur", r.dur)
		}
		if d.cfg.OnResult != nil {
			d.cfg.OnResult(r.name, r.err)
		}
	}
}

// Close stops accepting jobs, lets queued jobs finish and waits for their
// results to be reported, or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	go func() {
		d.workers.Wait()
		close(d.results)
	}()

	select {
	case <-d.reporter:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
