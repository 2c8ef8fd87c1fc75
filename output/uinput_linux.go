//go:build linux

package output

import (
	"fmt"
	"log/slog"
	"syscall"
	"time"

	"github.com/filbar/swapper/layout"
	"github.com/filbar/swapper/model"
	evdev "github.com/holoplot/go-evdev"
)

const (
	UinputDeviceName = "swapper virtual keyboard"

	busUSB = 0x03
)

type eventWriter interface {
	WriteOne(event *evdev.InputEvent) error
}

// UinputSink types emissions on a virtual keyboard created through /dev/uinput.
type UinputSink struct {
	dev    eventWriter
	closer func() error
}

// NewUinputSink creates the virtual keyboard. It can emit every key that has an evdev
// mapping.
func NewUinputSink() (*UinputSink, error) {
	dev, err := evdev.CreateDevice(
		UinputDeviceName,
		evdev.InputID{BusType: busUSB, Vendor: 0x1209, Product: 0x5753, Version: 1},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_KEY: layout.EvdevCodes(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("could not create uinput device: %w", err)
	}

	return &UinputSink{dev: dev, closer: dev.Close}, nil
}

func newUinputSinkWithWriter(w eventWriter) *UinputSink {
	return &UinputSink{dev: w, closer: func() error { return nil }}
}

func (s *UinputSink) Emit(code model.Keycode, down bool) {
	evCode, ok := layout.EvdevCode(code)
	if !ok {
		slog.Warn("keycode has no evdev mapping, not emitted", "code", code)

		return
	}

	value := int32(0)
	if down {
		value = 1
	}

	tv := syscall.NsecToTimeval(time.Now().UnixNano())

	events := []*evdev.InputEvent{
		{Time: tv, Type: evdev.EV_KEY, Code: evCode, Value: value},
		{Time: tv, Type: evdev.EV_SYN, Code: evdev.SYN_REPORT, Value: 0},
	}

	for _, ev := range events {
		if err := s.dev.WriteOne(ev); err != nil {
			slog.Error("could not write to uinput device", "code", code, "down", down, "error", err)

			return
		}
	}
}

func (s *UinputSink) Close() error {
	return s.closer()
}
