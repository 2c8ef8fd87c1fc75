//go:build !linux

package output

import (
	"errors"

	"github.com/filbar/swapper/model"
)

var ErrUinputUnsupported = errors.New("uinput output is only available on linux")

type UinputSink struct{}

func NewUinputSink() (*UinputSink, error) {
	return nil, ErrUinputUnsupported
}

func (s *UinputSink) Emit(model.Keycode, bool) {}

func (s *UinputSink) Close() error {
	return nil
}
