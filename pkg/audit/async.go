package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

// Emitter accepts events without blocking the caller.
type Emitter interface {
	Emit(event Event) error
}

// AsyncOptions configures batching and buffering.
type AsyncOptions struct {
	BufferSize     int           // Max events queued in memory; further events are dropped
	BatchSize      int           // Target events per StoreBatch call
	BatchTimeout   time.Duration // Max time a partial batch waits before it is flushed
	StorageTimeout time.Duration // Per-batch storage timeout
}

// AsyncLogger queues events in a bounded buffer and writes them in batches
// from a single background goroutine. Emit never blocks: when the buffer is
// full the event is dropped and counted.
type AsyncLogger struct {
	storage Storage
	opts    AsyncOptions
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
	events chan Event
	done   chan struct{}

	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewAsyncLogger starts the background writer. Call Close to drain it.
func NewAsyncLogger(storage Storage, opts AsyncOptions, log *slog.Logger) *AsyncLogger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	if log == nil {
		log = logger.Nop()
	}

	if opts.BufferSize <= 0 {
		opts.BufferSize = 1024
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	l := &AsyncLogger{
		storage: storage,
		opts:    opts,
		log:     log.With(logger.Component("audit")),
		events:  make(chan Event, opts.BufferSize),
		done:    make(chan struct{}),
	}
	go l.worker()
	return l
}

// Emit queues the event. It returns ErrBufferFull when the event was dropped
// and ErrLoggerClosed after Close; it never waits for storage.
func (l *AsyncLogger) Emit(event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrLoggerClosed
	}

	select {
	case l.events <- event:
		return nil
	default:
		l.dropped.Add(1)
		return ErrBufferFull
	}
}

// Dropped returns the number of events discarded because the buffer was full.
func (l *AsyncLogger) Dropped() uint64 { return l.dropped.Load() }

// Failed returns the number of events lost to storage errors.
func (l *AsyncLogger) Failed() uint64 { return l.failed.Load() }

// Close stops accepting events and waits until queued events are flushed or
// ctx expires. It is safe to call more than once.
func (l *AsyncLogger) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.events)
	}
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *AsyncLogger) worker() {
	defer close(l.done)

	batch := make([]Event, 0, l.opts.BatchSize)
	ticker := time.NewTicker(l.opts.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// detached from any request context
		ctx, cancel := context.WithTimeout(context.Background(), l.opts.StorageTimeout)
		defer cancel()

		if err := l.storage.StoreBatch(ctx, batch); err != nil {
			l.failed.Add(uint64(len(batch)))
			l.log.ErrorContext(ctx, "audit: failed to store batch",
				slog.Int("events", len(batch)),
				logger.Error(err),
			)
		}
		clear(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-l.events:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= l.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
