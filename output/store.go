package output

import (
	"log/slog"

	"github.com/filbar/swapper/model"
)

// EmissionStore persists emissions attributed to a binding.
type EmissionStore interface {
	StoreEmission(binding string, e model.Emission) error
}

// StoreTracker records emissions into the session database. It is registered as a
// dispatcher tracker rather than a sink because the store needs the binding name.
type StoreTracker struct {
	Store EmissionStore
}

func (t StoreTracker) Track(binding string, e model.Emission) {
	if err := t.Store.StoreEmission(binding, e); err != nil {
		slog.Error("could not store emission", "binding", binding, "emission", e, "error", err)
	}
}
