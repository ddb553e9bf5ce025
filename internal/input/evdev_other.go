//go:build !linux

package input

import (
	"context"

	"go.uber.org/zap"
)

// Evdev is only available on Linux.
type Evdev struct{}

// NewEvdev reports ErrUnsupported outside Linux.
func NewEvdev(_ *zap.Logger) (*Evdev, error) {
	return nil, ErrUnsupported
}

// ListDevices reports ErrUnsupported outside Linux.
func ListDevices() ([]Device, error) {
	return nil, ErrUnsupported
}

// Stream implements Source.
func (s *Evdev) Stream(_ context.Context, _ func(Event) error) error {
	return ErrUnsupported
}
