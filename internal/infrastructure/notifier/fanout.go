package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/LavaJover/promise-case-service/internal/domain"
)

// Fanout hands every batch to each sink in turn and joins their errors.
type Fanout []domain.EventSink

func (f Fanout) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every published event in memory, in publish order.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *Recorder) Publish(_ context.Context, events ...domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// OfType filters the recorded events by type.
func (r *Recorder) OfType(t domain.EventType) []domain.Event {
	var out []domain.Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
