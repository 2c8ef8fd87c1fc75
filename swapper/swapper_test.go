package swapper_test

import (
	"math/rand/v2"
	"testing"

	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/swapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyTab   model.Keycode = 0x2B
	keyGrave model.Keycode = 0x35
	keyLGUI  model.Keycode = 0xE3
	keyA     model.Keycode = 0x04
	keySwApp model.Keycode = 0x7E41
	keySwWin model.Keycode = 0x7E42
)

var (
	appBinding = model.Binding{Name: "app", Modifier: keyLGUI, Trigger: keyTab, Activation: keySwApp}
	winBinding = model.Binding{Name: "win", Modifier: keyLGUI, Trigger: keyGrave, Activation: keySwWin}
)

func press(code model.Keycode) model.KeyEvent {
	return model.KeyEvent{Keycode: code, Pressed: true}
}

func release(code model.Keycode) model.KeyEvent {
	return model.KeyEvent{Keycode: code, Pressed: false}
}

func down(code model.Keycode) model.Emission {
	return model.Emission{Keycode: code, Down: true}
}

func up(code model.Keycode) model.Emission {
	return model.Emission{Keycode: code, Down: false}
}

func run(state *swapper.State, b model.Binding, events ...model.KeyEvent) []model.Emission {
	result := make([]model.Emission, 0)
	for _, ev := range events {
		result = append(result, swapper.HandleEvent(state, b, ev)...)
	}

	return result
}

func TestHandleEvent(t *testing.T) {
	testCases := []struct {
		name           string
		events         []model.KeyEvent
		expected       []model.Emission
		expectedActive bool
	}{
		{
			"press activation holds modifier and taps trigger",
			[]model.KeyEvent{press(keySwApp)},
			[]model.Emission{down(keyLGUI), down(keyTab)},
			true,
		},
		{
			"release activation keeps modifier held",
			[]model.KeyEvent{press(keySwApp), release(keySwApp)},
			[]model.Emission{down(keyLGUI), down(keyTab), up(keyTab)},
			true,
		},
		{
			"second press does not repeat modifier",
			[]model.KeyEvent{press(keySwApp), release(keySwApp), press(keySwApp)},
			[]model.Emission{down(keyLGUI), down(keyTab), up(keyTab), down(keyTab)},
			true,
		},
		{
			"unrelated press releases modifier",
			[]model.KeyEvent{press(keySwApp), release(keySwApp), press(keyA)},
			[]model.Emission{down(keyLGUI), down(keyTab), up(keyTab), up(keyLGUI)},
			false,
		},
		{
			"unrelated release releases modifier",
			[]model.KeyEvent{press(keySwApp), release(keySwApp), release(keyA)},
			[]model.Emission{down(keyLGUI), down(keyTab), up(keyTab), up(keyLGUI)},
			false,
		},
		{
			"unrelated key while holding activation releases modifier only",
			[]model.KeyEvent{press(keySwApp), press(keyA), release(keySwApp)},
			[]model.Emission{down(keyLGUI), down(keyTab), up(keyLGUI), up(keyTab)},
			false,
		},
		{
			"unrelated keys while idle emit nothing",
			[]model.KeyEvent{press(keyA), release(keyA)},
			[]model.Emission{},
			false,
		},
		{
			"release of activation while idle still lifts trigger",
			[]model.KeyEvent{release(keySwApp)},
			[]model.Emission{up(keyTab)},
			false,
		},
		{
			"new gesture after release holds modifier again",
			[]model.KeyEvent{press(keySwApp), release(keySwApp), press(keyA), press(keySwApp)},
			[]model.Emission{down(keyLGUI), down(keyTab), up(keyTab), up(keyLGUI), down(keyLGUI), down(keyTab)},
			true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := swapper.State{}

			emissions := run(&state, appBinding, tc.events...)

			assert.Equal(t, tc.expected, emissions)
			assert.Equal(t, tc.expectedActive, state.Active)
		})
	}
}

func TestHandleEventIgnoresTiming(t *testing.T) {
	state := swapper.State{}

	ev := model.KeyEvent{Keycode: keySwApp, Pressed: true, Time: 1234, TapCount: 3, Interrupted: true}

	assert.Equal(t, []model.Emission{down(keyLGUI), down(keyTab)}, swapper.HandleEvent(&state, appBinding, ev))
}

func TestRepeatedPressesNeverRepeatModifier(t *testing.T) {
	state := swapper.State{}

	events := make([]model.KeyEvent, 0)
	for range 20 {
		events = append(events, press(keySwApp), release(keySwApp))
	}

	emissions := run(&state, appBinding, events...)

	modifierDowns := 0
	triggerDowns := 0

	for _, e := range emissions {
		if e == down(keyLGUI) {
			modifierDowns++
		}

		if e == down(keyTab) {
			triggerDowns++
		}
	}

	assert.Equal(t, 1, modifierDowns)
	assert.Equal(t, 20, triggerDowns)
	assert.True(t, state.Active)
}

func TestSharedModifierBindingsInterfere(t *testing.T) {
	app := swapper.State{}
	win := swapper.State{}

	handle := func(ev model.KeyEvent) ([]model.Emission, []model.Emission) {
		return swapper.HandleEvent(&app, appBinding, ev), swapper.HandleEvent(&win, winBinding, ev)
	}

	appOut, winOut := handle(press(keySwApp))
	assert.Equal(t, []model.Emission{down(keyLGUI), down(keyTab)}, appOut)
	assert.Empty(t, winOut)

	// The other gesture's key is unrelated from app's point of view.
	appOut, winOut = handle(press(keySwWin))
	assert.Equal(t, []model.Emission{up(keyLGUI)}, appOut)
	assert.Equal(t, []model.Emission{down(keyLGUI), down(keyGrave)}, winOut)

	assert.False(t, app.Active)
	assert.True(t, win.Active)
}

func TestBalanceHoldsForRandomStreams(t *testing.T) {
	codes := []model.Keycode{keySwApp, keySwWin, keyA, keyTab}
	rng := rand.New(rand.NewPCG(42, 7))

	for round := range 50 {
		state := swapper.State{}
		downs, ups := 0, 0

		for range 200 {
			ev := model.KeyEvent{Keycode: codes[rng.IntN(len(codes))], Pressed: rng.IntN(2) == 0}

			for _, e := range swapper.HandleEvent(&state, appBinding, ev) {
				if e.Keycode != keyLGUI {
					continue
				}

				if e.Down {
					downs++
				} else {
					ups++
				}
			}

			require.GreaterOrEqual(t, downs-ups, 0, "round %d", round)
			require.LessOrEqual(t, downs-ups, 1, "round %d", round)
			require.Equal(t, state.Active, downs-ups == 1, "round %d", round)
		}
	}
}
