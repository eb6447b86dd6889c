// Package events provides a synchronous in-process event bus. Handlers run on the publishing
// goroutine in subscription order, so publishers observe every side effect once Publish returns.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Type names a kind of event.
type Type string

// Event is implemented by everything published on the bus.
type Event interface {
	EventType() Type
	OccurredAt() time.Time
}

// Handler reacts to a published event.
type Handler func(ctx context.Context, event Event) error

// ErrNilHandler is returned when subscribing a nil handler.
var ErrNilHandler = errors.New("handler cannot be nil")

// Bus dispatches events to subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	logger   *zap.Logger
}

// NewBus constructs an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{handlers: make(map[Type][]Handler), logger: logger}
}

// Subscribe registers handler for events of the given type.
func (b *Bus) Subscribe(eventType Type, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug("subscribed handler", zap.String("event_type", string(eventType)))
	return nil
}

// Publish runs every handler for the event. Handler failures are logged and joined into the
// returned error; one failing handler does not stop the others.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	if b == nil || event == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventType()]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		start := time.Now()
		if err := handler(ctx, event); err != nil {
			b.logger.Warn("event handler failed",
				zap.String("event_type", string(event.EventType())),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
