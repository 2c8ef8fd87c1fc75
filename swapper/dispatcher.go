package swapper

import (
	"log/slog"
	"sync"

	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/output"
)

// Tracker observes every emission together with the name of the binding that produced it.
type Tracker interface {
	Track(binding string, e model.Emission)
}

type entry struct {
	binding model.Binding
	state   State
}

// Dispatcher runs every registered binding over each incoming event. Bindings are
// evaluated in registration order and each keeps its own State, also when several
// of them share a modifier. Handle must be called from a single goroutine; the lock
// only protects concurrent readers of States.
type Dispatcher struct {
	entries   []*entry
	sink      output.Sink
	trackers  []Tracker
	verbose   bool
	stateLock sync.RWMutex
}

func NewDispatcher(sink output.Sink, bindings []model.Binding, trackers ...Tracker) *Dispatcher {
	entries := make([]*entry, 0, len(bindings))
	for _, b := range bindings {
		entries = append(entries, &entry{binding: b})
	}

	if sink == nil {
		sink = output.Discard{}
	}

	return &Dispatcher{
		entries:   entries,
		sink:      sink,
		trackers:  trackers,
		stateLock: sync.RWMutex{},
	}
}

func (d *Dispatcher) SetVerbose(verbose bool) {
	d.verbose = verbose
}

// Handle feeds one event to all bindings and forwards the resulting emissions to the
// sink in order.
func (d *Dispatcher) Handle(event model.KeyEvent) {
	d.stateLock.Lock()
	defer d.stateLock.Unlock()

	for _, e := range d.entries {
		emissions := HandleEvent(&e.state, e.binding, event)

		if d.verbose && len(emissions) > 0 {
			slog.Info("binding transition",
				"binding", e.binding.Name,
				"keycode", event.Keycode,
				"pressed", event.Pressed,
				"active", e.state.Active,
				"emissions", emissions)
		}

		for _, em := range emissions {
			d.sink.Emit(em.Keycode, em.Down)

			for _, t := range d.trackers {
				t.Track(e.binding.Name, em)
			}
		}
	}
}

func (d *Dispatcher) Bindings() []model.Binding {
	result := make([]model.Binding, len(d.entries))
	for i, e := range d.entries {
		result[i] = e.binding
	}

	return result
}

// States returns a snapshot of every binding and whether its modifier is held.
func (d *Dispatcher) States() []model.BindingState {
	d.stateLock.RLock()
	defer d.stateLock.RUnlock()

	result := make([]model.BindingState, len(d.entries))
	for i, e := range d.entries {
		result[i] = model.BindingState{Binding: e.binding, Active: e.state.Active}
	}

	return result
}
