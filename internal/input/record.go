package input

import (
	"context"
	"errors"
)

// ErrCanceled is returned by Record when the user pressed escape.
var ErrCanceled = errors.New("recording canceled")

var errCaptured = errors.New("captured")

// Record listens on src for exactly one press and returns it. Escape cancels with
// ErrCanceled; ctx ending first returns the context error. The subscription is
// released before Record returns on every path.
func Record(ctx context.Context, src Source) (Event, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var captured Event
	canceled := false
	err := src.Stream(ctx, func(ev Event) error {
		if ev.Name == "" {
			return nil
		}
		if ev.IsEscape() {
			canceled = true
			return ErrCanceled
		}
		captured = ev
		return errCaptured
	})
	switch {
	case canceled:
		return Event{}, ErrCanceled
	case errors.Is(err, errCaptured):
		return captured, nil
	case err != nil:
		return Event{}, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Event{}, ctxErr
	}
	return Event{}, ErrCanceled
}
