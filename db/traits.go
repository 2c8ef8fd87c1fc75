package db

import (
	"iter"

	"github.com/filbar/swapper/model"
)

// Storage keeps a session: every key event read from the keyboard and every emission
// the bindings sent to the host.
type Storage interface {
	Store(event *model.KeyEventWithTimestamp) error
	StoreEmission(binding string, e model.Emission) error
	GatherAll() ([]model.MinimalKeyEvent, error)
	GatherEmissions() ([]model.EmissionCount, error)
	AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error)
	Close()
}
