package input

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Watcher streams a Source on a background goroutine and forwards every event to a
// single handler. The handler runs on the delivery goroutine and must not block.
type Watcher struct {
	src     Source
	handler func(Event)
	log     *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher constructs a stopped watcher.
func NewWatcher(src Source, handler func(Event), log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{src: src, handler: handler, log: log}
}

// Start begins listening. Calling Start on a running watcher does nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w.cancel = cancel
	w.done = done
	go func() {
		defer close(done)
		err := w.src.Stream(ctx, func(ev Event) error {
			if ev.Name == "" {
				return nil
			}
			w.handler(ev)
			return nil
		})
		if err != nil {
			w.log.Warn("input source stopped", zap.Error(err))
		}
	}()
	w.log.Debug("input watcher started")
}

// Stop releases the source and waits for the delivery goroutine to exit. It is safe
// to call more than once or on a watcher that never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	w.log.Debug("input watcher stopped")
}

// Running reports whether the watcher is listening.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}
