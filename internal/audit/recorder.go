package audit

import (
	"context"
	"sync"
)

// Recorder accepts audit entries and fans them out to subscribed sinks.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Subscribe(action Action, handler Handler)
}

// inMemoryRecorder is a simple synchronous recorder.
type inMemoryRecorder struct {
	mu        sync.RWMutex
	listeners map[Action][]Handler
}

// NewInMemoryRecorder creates a recorder instance.
func NewInMemoryRecorder() Recorder {
	return &inMemoryRecorder{
		listeners: make(map[Action][]Handler),
	}
}

// Record synchronously invokes handlers for the entry's action. Handler
// errors are swallowed so one failing sink cannot block the others or the
// caller.
func (r *inMemoryRecorder) Record(ctx context.Context, entry Entry) error {
	r.mu.RLock()
	handlers := append([]Handler{}, r.listeners[entry.Action]...)
	r.mu.RUnlock()

	for _, handler := range handlers {
		_ = handler(ctx, entry)
	}
	return nil
}

// Subscribe registers a handler for the given action.
func (r *inMemoryRecorder) Subscribe(action Action, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[action] = append(r.listeners[action], handler)
}

// Actions lists every audited action, for sinks that subscribe to all.
func Actions() []Action {
	return []Action{
		ActionCreateTicket,
		ActionUpdateTicket,
		ActionDeleteTicket,
		ActionChangeStatus,
		ActionAddMessage,
		ActionAddIntegration,
		ActionUpdateIntegration,
		ActionRemoveIntegration,
	}
}
