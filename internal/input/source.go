package input

import (
	"context"
	"errors"

	"github.com/puzpuzpuz/xsync/v3"
)

// Source emits normalized press events until ctx is done or emit returns an error.
// Stream returns nil when ctx ends and the emit error otherwise.
type Source interface {
	Stream(ctx context.Context, emit func(Event) error) error
}

// SourceFunc adapts a function literal to the Source interface.
type SourceFunc func(ctx context.Context, emit func(Event) error) error

// Stream calls the underlying function.
func (f SourceFunc) Stream(ctx context.Context, emit func(Event) error) error {
	return f(ctx, emit)
}

// ErrUnsupported is returned when a source is not available on this platform.
var ErrUnsupported = errors.New("input source not supported on this platform")

const feedBuffer = 64

// Feed fans events published by a frontend out to every active Stream. Each Stream
// call is its own subscription and is released when the call returns.
type Feed struct {
	subs *xsync.MapOf[chan Event, struct{}]
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: xsync.NewMapOf[chan Event, struct{}]()}
}

// Publish delivers ev to every subscriber without blocking. A subscriber whose
// buffer is full misses the event.
func (f *Feed) Publish(ev Event) {
	f.subs.Range(func(ch chan Event, _ struct{}) bool {
		select {
		case ch <- ev:
		default:
		}
		return true
	})
}

// Subscribers returns the number of live subscriptions.
func (f *Feed) Subscribers() int {
	return f.subs.Size()
}

// Stream implements Source.
func (f *Feed) Stream(ctx context.Context, emit func(Event) error) error {
	ch := make(chan Event, feedBuffer)
	f.subs.Store(ch, struct{}{})
	defer f.subs.Delete(ch)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-ch:
			if err := emit(ev); err != nil {
				return err
			}
		}
	}
}
