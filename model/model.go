package model

import (
	"fmt"
	"time"
)

// Keycode identifies a physical or virtual key. Values follow the QMK keycode space:
// basic keys are HID usage ids, user keycodes start at SAFE_RANGE.
type Keycode uint16

func (k Keycode) String() string {
	return fmt.Sprintf("0x%04X", uint16(k))
}

type KeyEvent struct {
	Keycode     Keycode
	Row         int
	Col         int
	Pressed     bool
	Time        uint16 // device clock, milliseconds
	TapCount    int
	Interrupted bool
}

type KeyEventWithTimestamp struct {
	KeyEvent
	Timestamp time.Time
}

// Binding describes one emulated "hold modifier, tap trigger" gesture.
// Activation is the keycode observed in the event stream, Trigger is what gets sent
// to the host while Modifier is held.
type Binding struct {
	Name       string
	Modifier   Keycode
	Trigger    Keycode
	Activation Keycode
}

// Emission is a single key transition sent to the host.
type Emission struct {
	Keycode Keycode
	Down    bool
}

func (e Emission) String() string {
	if e.Down {
		return e.Keycode.String() + " down"
	}

	return e.Keycode.String() + " up"
}

type BindingState struct {
	Binding Binding
	Active  bool
}

type MinimalKeyEvent struct {
	Keycode Keycode
	Count   int
}

type MinimalKeyEventWithLabel struct {
	Keycode Keycode
	Count   int
	Name    string
	Label   string
}

// EmissionCount aggregates stored emissions of one binding for one keycode.
type EmissionCount struct {
	Binding string
	Keycode Keycode
	Downs   int
	Ups     int
}
