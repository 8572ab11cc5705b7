package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrDispatcherFull   = errors.New("event dispatcher queue is full")
	ErrDispatcherClosed = errors.New("event dispatcher is closed")
)

// Dispatcher moves delivery off the request path. Batches are queued and
// handed to the wrapped sink by a single worker, so per-case order is kept.
type Dispatcher struct {
	sink    domain.EventSink
	queue   chan []domain.Event
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink domain.EventSink, queueSize int, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	d := &Dispatcher{
		sink:    sink,
		queue:   make(chan []domain.Event, queueSize),
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish never waits for the sink. A full queue drops the batch.
func (d *Dispatcher) Publish(_ context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	batch := append([]domain.Event(nil), events...)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- batch:
		return nil
	default:
		return ErrDispatcherFull
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for batch := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sink.Publish(ctx, batch...); err != nil {
			d.logger.Warn("failed to deliver events",
				zap.Int("count", len(batch)),
				zap.String("case_id", batch[0].CaseID),
				zap.String("first_type", string(batch[0].Type)),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close stops accepting batches and waits for the queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
