//go:build linux

package ports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/filbar/swapper/layout"
	"github.com/filbar/swapper/model"
	evdev "github.com/holoplot/go-evdev"
)

// Values of EV_KEY events; 0 is a release.
const (
	evdevPress      = 1
	evdevAutoRepeat = 2
)

// EvdevSource reads key transitions from a Linux input device.
type EvdevSource struct {
	path string
	dev  *evdev.InputDevice
}

// OpenEvdev opens an input device. With grab set, other readers (including the desktop)
// stop seeing its events.
func OpenEvdev(path string, grab bool) (*EvdevSource, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open input device %s: %w", path, err)
	}

	if grab {
		if err := dev.Grab(); err != nil {
			dev.Close()

			return nil, fmt.Errorf("could not grab input device %s: %w", path, err)
		}
	}

	return &EvdevSource{path: path, dev: dev}, nil
}

// ConvertEvdev turns an EV_KEY press or release into a key event. Autorepeat and
// non-key events are dropped. Codes without a keycode are passed on as KC_NO, which
// still counts as "some other key" for bindings.
func ConvertEvdev(ev *evdev.InputEvent) (*model.KeyEventWithTimestamp, bool) {
	if ev.Type != evdev.EV_KEY || ev.Value == evdevAutoRepeat {
		return nil, false
	}

	code, ok := layout.KeycodeFromEvdev(ev.Code)
	if !ok {
		slog.Debug("unmapped evdev code", "code", ev.Code)

		code = layout.KC_NO
	}

	ts := time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*int64(time.Microsecond))

	return &model.KeyEventWithTimestamp{
		KeyEvent: model.KeyEvent{
			Keycode: code,
			Pressed: ev.Value == evdevPress,
			Time:    uint16(ts.UnixMilli()),
		},
		Timestamp: ts,
	}, true
}

// Events streams converted events until ctx is done or the device goes away.
func (s *EvdevSource) Events(ctx context.Context) <-chan model.KeyEventWithTimestamp {
	out := make(chan model.KeyEventWithTimestamp)

	go func() {
		<-ctx.Done()
		// Unblocks ReadOne.
		s.dev.Close()
	}()

	go func() {
		defer close(out)

		for {
			ev, err := s.dev.ReadOne()
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
					slog.Error("input device read failed", "path", s.path, "error", err)
				}

				return
			}

			if converted, ok := ConvertEvdev(ev); ok {
				select {
				case out <- *converted:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
