// Package queue implements an in-memory buffer of enriched events that
// flushes to the columnar writer either when it reaches a size threshold or
// on a fixed interval, whichever comes first. The buffer has no capacity
// limit: while the consumer is busy in the sink, Enqueue keeps appending.
// Both triggers
// are serviced by a single supervised consumer goroutine — Enqueue only
// ever appends to the buffer and, on crossing the threshold, posts a
// non-blocking signal; it never calls the sink itself, so a stall in the
// columnar write can never delay the caller.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/trailbeacon/core/internal/logging"
)

// Event is the minimal shape the queue moves; callers pass whatever
// already-enriched record the store layer expects.
type Event any

// Sink receives a batch for durable storage. A Sink that returns an error
// only gets logged — the queue never retries or blocks on it, so delivery
// is at-most-once.
type Sink func(ctx context.Context, batch []Event) error

// Queue buffers events and flushes them to a Sink on size or interval
// triggers, both serviced by the single consumer goroutine started by Run.
type Queue struct {
	mu            sync.RWMutex
	buf           []Event
	flushSize     int
	flushInterval time.Duration
	sink          Sink

	flushNow chan struct{}
	stop     chan struct{}
	wg       conc.WaitGroup
}

// New builds a Queue with the given flush thresholds and sink.
func New(flushSize int, flushInterval time.Duration, sink Sink) *Queue {
	return &Queue{
		flushSize:     flushSize,
		flushInterval: flushInterval,
		sink:          sink,
		flushNow:      make(chan struct{}, 1),
		stop:          make(chan struct{}),
	}
}

// Enqueue appends ev to the buffer. If the buffer has reached flushSize it
// posts a non-blocking signal asking the consumer goroutine to flush early
// instead of flushing here — Enqueue never calls the sink itself, so the
// caller's goroutine never waits on a columnar write.
func (q *Queue) Enqueue(ctx context.Context, ev Event) {
	q.mu.Lock()
	q.buf = append(q.buf, ev)
	full := len(q.buf) >= q.flushSize
	q.mu.Unlock()

	if full {
		select {
		case q.flushNow <- struct{}{}:
		default:
		}
	}
}

// Run starts the consumer goroutine under a supervised conc.WaitGroup. It
// owns every flush: triggered by the interval ticker, by an early-flush
// signal from Enqueue, or by Stop/ctx cancellation, which each perform one
// final flush before returning.
func (q *Queue) Run(ctx context.Context) {
	q.wg.Go(func() {
		ticker := time.NewTicker(q.flushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				q.flushIfAny(ctx)
			case <-q.flushNow:
				q.flushIfAny(ctx)
			case <-q.stop:
				q.flushIfAny(ctx)
				return
			case <-ctx.Done():
				q.flushIfAny(ctx)
				return
			}
		}
	})
}

// Stop signals the consumer loop to perform a final flush and exit, then
// waits for it to do so.
func (q *Queue) Stop() {
	close(q.stop)
	q.wg.Wait()
}

// Len reports the current buffer length; exposed for tests and metrics.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.buf)
}

func (q *Queue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return nil
	}
	batch := q.buf
	q.buf = nil
	return batch
}

func (q *Queue) flushIfAny(ctx context.Context) {
	batch := q.drain()
	if batch == nil {
		return
	}
	if err := q.sink(ctx, batch); err != nil {
		logging.L().Error("queue: flush failed, batch discarded",
			zap.Int("batch_size", len(batch)), zap.Error(err))
	}
}
