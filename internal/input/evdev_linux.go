//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jochenvg/go-udev"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Evdev reads presses from every keyboard and mouse event node, regardless of which
// window has focus. The process needs read access to /dev/input/event*.
type Evdev struct {
	log *zap.Logger
}

// NewEvdev returns a global input source.
func NewEvdev(log *zap.Logger) (*Evdev, error) {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evdev{log: log}, nil
}

// ListDevices enumerates event nodes udev tags as keyboards or mice.
func ListDevices() ([]Device, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("input"); err != nil {
		return nil, fmt.Errorf("failed to match input subsystem: %w", err)
	}
	if err := e.AddMatchIsInitialized(); err != nil {
		return nil, fmt.Errorf("failed to match initialized devices: %w", err)
	}
	devs, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate input devices: %w", err)
	}
	var out []Device
	for _, d := range devs {
		node := d.Devnode()
		if !strings.HasPrefix(filepath.Base(node), "event") {
			continue
		}
		dev := Device{
			Path:     node,
			Keyboard: d.PropertyValue("ID_INPUT_KEYBOARD") == "1",
			Mouse:    d.PropertyValue("ID_INPUT_MOUSE") == "1",
		}
		if !dev.Keyboard && !dev.Mouse {
			continue
		}
		if parent := d.Parent(); parent != nil {
			dev.Name = strings.Trim(parent.PropertyValue("NAME"), `"`)
		}
		out = append(out, dev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Stream implements Source.
func (s *Evdev) Stream(ctx context.Context, emit func(Event) error) error {
	devices, err := ListDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return errors.New("no keyboard or mouse devices found")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	open := xsync.NewMapOf[string, *os.File]()
	var openErr error
	for _, dev := range devices {
		f, err := os.Open(dev.Path)
		if err != nil {
			s.log.Warn("failed to open input device", zap.String("path", dev.Path), zap.Error(err))
			openErr = err
			continue
		}
		open.Store(dev.Path, f)
		s.log.Debug("listening on input device", zap.String("path", dev.Path), zap.String("name", dev.Name))
	}
	if open.Size() == 0 {
		return fmt.Errorf("failed to open input devices: %w", openErr)
	}

	events := make(chan Event)
	group, groupCtx := errgroup.WithContext(ctx)
	open.Range(func(path string, f *os.File) bool {
		group.Go(func() error {
			return readDevice(groupCtx, path, f, events)
		})
		return true
	})
	group.Go(func() error {
		<-groupCtx.Done()
		open.Range(func(path string, f *os.File) bool {
			if cerr := f.Close(); cerr != nil {
				s.log.Debug("failed to close input device", zap.String("path", path), zap.Error(cerr))
			}
			return true
		})
		return nil
	})

	var emitErr error
loop:
	for {
		select {
		case <-groupCtx.Done():
			break loop
		case ev := <-events:
			if err := emit(ev); err != nil {
				emitErr = err
				break loop
			}
		}
	}
	cancel()
	groupErr := group.Wait()
	switch {
	case emitErr != nil:
		return emitErr
	case groupErr != nil && !errors.Is(groupErr, context.Canceled):
		return groupErr
	}
	return nil
}

func readDevice(ctx context.Context, path string, f *os.File, events chan<- Event) error {
	buf := make([]byte, evdevEventSize*64)
	for {
		n, err := f.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		for off := 0; off+evdevEventSize <= n; off += evdevEventSize {
			raw, err := decodeEvdev(buf[off : off+evdevEventSize])
			if err != nil {
				return err
			}
			ev, ok := evdevPress(raw)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
