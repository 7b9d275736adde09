package events

import (
    "context"
    "log/slog"
    "sync"
)

// Handler consumes one event. Returned errors are logged, never
// propagated: event fan-out is strictly after-commit and best-effort.
type Handler interface {
    Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

// Bus dispatches events synchronously to registered handlers.
type Bus struct {
    mu       sync.RWMutex
    byKind   map[Kind][]Handler
    catchAll []Handler
}

func NewBus() *Bus { return &Bus{byKind: map[Kind][]Handler{}} }

// Subscribe registers a handler for one event kind.
func (b *Bus) Subscribe(k Kind, h Handler) {
    b.mu.Lock()
    b.byKind[k] = append(b.byKind[k], h)
    b.mu.Unlock()
}

// SubscribeAll registers a handler for every event kind.
func (b *Bus) SubscribeAll(h Handler) {
    b.mu.Lock()
    b.catchAll = append(b.catchAll, h)
    b.mu.Unlock()
}

// Publish fans the event out. Handler errors are logged and swallowed.
func (b *Bus) Publish(ctx context.Context, e Event) {
    b.mu.RLock()
    hs := append([]Handler(nil), b.byKind[e.EventKind()]...)
    hs = append(hs, b.catchAll...)
    b.mu.RUnlock()
    for _, h := range hs {
        if err := h.Handle(ctx, e); err != nil {
            slog.Warn("event handler failed", "kind", e.EventKind(), "error", err)
        }
    }
}
