package swapper_test

import (
	"testing"

	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/output"
	"github.com/filbar/swapper/swapper"
	"github.com/stretchr/testify/assert"
)

type trackedEmission struct {
	binding  string
	emission model.Emission
}

// TrackerMock remembers every tracked emission.
type TrackerMock struct {
	tracked []trackedEmission
}

func (m *TrackerMock) Track(binding string, e model.Emission) {
	m.tracked = append(m.tracked, trackedEmission{binding, e})
}

func TestDispatcher(t *testing.T) {
	t.Run("forwards emissions to sink in registration order", func(t *testing.T) {
		rec := &output.Recorder{}
		tracker := &TrackerMock{}
		d := swapper.NewDispatcher(rec, []model.Binding{appBinding, winBinding}, tracker)

		d.Handle(press(keySwApp))
		d.Handle(release(keySwApp))
		d.Handle(press(keySwWin))

		assert.Equal(t, []model.Emission{
			down(keyLGUI), down(keyTab),
			up(keyTab),
			// app sees SW_WIN as unrelated and lets go first, then win takes over.
			up(keyLGUI),
			down(keyLGUI), down(keyGrave),
		}, rec.Emissions())

		assert.Equal(t, []trackedEmission{
			{"app", down(keyLGUI)},
			{"app", down(keyTab)},
			{"app", up(keyTab)},
			{"app", up(keyLGUI)},
			{"win", down(keyLGUI)},
			{"win", down(keyGrave)},
		}, tracker.tracked)
	})

	t.Run("reversed registration order changes interleaving", func(t *testing.T) {
		rec := &output.Recorder{}
		d := swapper.NewDispatcher(rec, []model.Binding{winBinding, appBinding})

		d.Handle(press(keySwApp))
		d.Handle(press(keySwWin))

		assert.Equal(t, []model.Emission{
			down(keyLGUI), down(keyTab),
			down(keyLGUI), down(keyGrave),
			up(keyLGUI),
		}, rec.Emissions())
	})

	t.Run("reports state per binding", func(t *testing.T) {
		d := swapper.NewDispatcher(nil, []model.Binding{appBinding, winBinding})

		d.Handle(press(keySwWin))

		assert.Equal(t, []model.BindingState{
			{Binding: appBinding, Active: false},
			{Binding: winBinding, Active: true},
		}, d.States())

		d.Handle(press(keyA))

		for _, s := range d.States() {
			assert.False(t, s.Active, s.Binding.Name)
		}
	})

	t.Run("returns bindings in order", func(t *testing.T) {
		d := swapper.NewDispatcher(nil, []model.Binding{winBinding, appBinding})

		assert.Equal(t, []model.Binding{winBinding, appBinding}, d.Bindings())
	})
}
