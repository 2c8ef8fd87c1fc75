//go:build !linux

package ports

import (
	"context"
	"errors"

	"github.com/filbar/swapper/model"
)

var ErrEvdevUnsupported = errors.New("evdev input is only available on linux")

type EvdevSource struct{}

func OpenEvdev(string, bool) (*EvdevSource, error) {
	return nil, ErrEvdevUnsupported
}

func (s *EvdevSource) Events(context.Context) <-chan model.KeyEventWithTimestamp {
	out := make(chan model.KeyEventWithTimestamp)
	close(out)

	return out
}
