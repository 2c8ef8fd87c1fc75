// Package swapper emulates "hold a modifier, tap a key repeatedly" gestures such as
// the application switcher (cmd-tab) on keyboards that only report single key transitions.
//
// A binding holds its modifier down from the first press of its activation key until any
// other key is pressed or released. Repeated taps of the activation key only tap the trigger.
package swapper

import "github.com/filbar/swapper/model"

// State is the per-binding flag. Active means the modifier has been sent down and
// not yet released.
type State struct {
	Active bool
}

// HandleEvent advances one binding by one event and returns the key transitions that
// must be sent to the host, in order.
func HandleEvent(state *State, binding model.Binding, event model.KeyEvent) []model.Emission {
	if event.Keycode == binding.Activation {
		if !event.Pressed {
			// The modifier stays down across repeated taps.
			return []model.Emission{{Keycode: binding.Trigger, Down: false}}
		}

		if state.Active {
			return []model.Emission{{Keycode: binding.Trigger, Down: true}}
		}

		state.Active = true

		return []model.Emission{
			{Keycode: binding.Modifier, Down: true},
			{Keycode: binding.Trigger, Down: true},
		}
	}

	if state.Active {
		state.Active = false

		return []model.Emission{{Keycode: binding.Modifier, Down: false}}
	}

	return nil
}
