package swapper_test

import (
	"testing"

	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/swapper"
	"github.com/stretchr/testify/assert"
)

func TestBalanceTracker(t *testing.T) {
	t.Run("counts a full gesture", func(t *testing.T) {
		tracker := swapper.NewBalanceTracker([]model.Binding{appBinding, winBinding})
		d := swapper.NewDispatcher(nil, []model.Binding{appBinding, winBinding}, tracker)

		d.Handle(press(keySwApp))
		d.Handle(release(keySwApp))
		d.Handle(press(keySwApp))
		d.Handle(release(keySwApp))

		assert.Equal(t, 1, tracker.Outstanding("app"))

		d.Handle(press(keyA))

		assert.Equal(t, []swapper.Balance{
			{Binding: "app", ModifierDown: 1, ModifierUp: 1, TriggerDown: 2, TriggerUp: 2},
			{Binding: "win"},
		}, tracker.Balances())
		assert.Empty(t, tracker.Violations())
	})

	t.Run("flags double modifier press", func(t *testing.T) {
		tracker := swapper.NewBalanceTracker([]model.Binding{appBinding})

		tracker.Track("app", down(keyLGUI))
		tracker.Track("app", down(keyLGUI))
		tracker.Track("app", up(keyLGUI))

		assert.Equal(t, []string{"app"}, tracker.Violations())
		assert.Equal(t, 1, tracker.Outstanding("app"))
	})

	t.Run("flags release without press", func(t *testing.T) {
		tracker := swapper.NewBalanceTracker([]model.Binding{appBinding})

		tracker.Track("app", up(keyLGUI))

		assert.Equal(t, []string{"app"}, tracker.Violations())
	})

	t.Run("ignores unknown bindings", func(t *testing.T) {
		tracker := swapper.NewBalanceTracker([]model.Binding{appBinding})

		tracker.Track("other", down(keyLGUI))

		assert.Equal(t, 0, tracker.Outstanding("other"))
		assert.Empty(t, tracker.Violations())
	})
}
