// Package dispatcher routes host events to registered handlers.
//
// pubmirror registers no handlers of its own: every event is unknown until
// an embedding host registers one, so the dispatch command always fails on
// a stock build.
package dispatcher

import (
	"context"
	"sort"
	"sync"

	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/logging"
)

// EventType names an event a host can dispatch.
type EventType string

// Handler processes one event. Args are the remaining command-line
// arguments after the event name.
type Handler func(ctx context.Context, args []string) error

// Dispatcher holds the registered handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType]Handler
}

// New creates an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{handlers: map[EventType]Handler{}}
}

// Default is the dispatcher used by the CLI.
var Default = New()

// Register installs or replaces the handler for an event.
func (d *Dispatcher) Register(event EventType, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = handler
}

// Events lists the registered events in sorted order.
func (d *Dispatcher) Events() []EventType {
	d.mu.RLock()
	defer d.mu.RUnlock()
	events := make([]EventType, 0, len(d.handlers))
	for e := range d.handlers {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i] < events[j] })
	return events
}

// Dispatch runs the handler for event.
func (d *Dispatcher) Dispatch(ctx context.Context, event EventType, args []string) error {
	logger := logging.GetLogger("dispatcher")
	logger.Debug().
		Str("event", string(event)).
		Strs("args", args).
		Msg("Dispatching event")

	d.mu.RLock()
	handler, ok := d.handlers[event]
	d.mu.RUnlock()

	if !ok {
		return errors.New(errors.ErrUnknownEvent, "unknown event type").
			WithDetail("event", string(event))
	}
	return handler(ctx, args)
}
