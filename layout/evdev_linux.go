//go:build linux

package layout

import (
	"github.com/filbar/swapper/model"
	evdev "github.com/holoplot/go-evdev"
)

var evdevCodes = map[model.Keycode]evdev.EvCode{
	KC_ENTER:       evdev.KEY_ENTER,
	KC_ESCAPE:      evdev.KEY_ESC,
	KC_BACKSPACE:   evdev.KEY_BACKSPACE,
	KC_TAB:         evdev.KEY_TAB,
	KC_SPACE:       evdev.KEY_SPACE,
	KC_MINUS:       evdev.KEY_MINUS,
	KC_EQUAL:       evdev.KEY_EQUAL,
	KC_LBRACKET:    evdev.KEY_LEFTBRACE,
	KC_RBRACKET:    evdev.KEY_RIGHTBRACE,
	KC_BACKSLASH:   evdev.KEY_BACKSLASH,
	KC_SEMICOLON:   evdev.KEY_SEMICOLON,
	KC_QUOTE:       evdev.KEY_APOSTROPHE,
	KC_GRAVE:       evdev.KEY_GRAVE,
	KC_COMMA:       evdev.KEY_COMMA,
	KC_DOT:         evdev.KEY_DOT,
	KC_SLASH:       evdev.KEY_SLASH,
	KC_CAPS_LOCK:   evdev.KEY_CAPSLOCK,
	KC_HOME:        evdev.KEY_HOME,
	KC_PAGE_UP:     evdev.KEY_PAGEUP,
	KC_DELETE:      evdev.KEY_DELETE,
	KC_END:         evdev.KEY_END,
	KC_PAGE_DOWN:   evdev.KEY_PAGEDOWN,
	KC_RIGHT:       evdev.KEY_RIGHT,
	KC_LEFT:        evdev.KEY_LEFT,
	KC_DOWN:        evdev.KEY_DOWN,
	KC_UP:          evdev.KEY_UP,
	KC_LEFT_CTRL:   evdev.KEY_LEFTCTRL,
	KC_LEFT_SHIFT:  evdev.KEY_LEFTSHIFT,
	KC_LEFT_ALT:    evdev.KEY_LEFTALT,
	KC_LEFT_GUI:    evdev.KEY_LEFTMETA,
	KC_RIGHT_CTRL:  evdev.KEY_RIGHTCTRL,
	KC_RIGHT_SHIFT: evdev.KEY_RIGHTSHIFT,
	KC_RIGHT_ALT:   evdev.KEY_RIGHTALT,
	KC_RIGHT_GUI:   evdev.KEY_RIGHTMETA,
}

// Letters, digits and function keys are not contiguous in the evdev table.
var (
	evdevLetters = []evdev.EvCode{
		evdev.KEY_A, evdev.KEY_B, evdev.KEY_C, evdev.KEY_D, evdev.KEY_E, evdev.KEY_F,
		evdev.KEY_G, evdev.KEY_H, evdev.KEY_I, evdev.KEY_J, evdev.KEY_K, evdev.KEY_L,
		evdev.KEY_M, evdev.KEY_N, evdev.KEY_O, evdev.KEY_P, evdev.KEY_Q, evdev.KEY_R,
		evdev.KEY_S, evdev.KEY_T, evdev.KEY_U, evdev.KEY_V, evdev.KEY_W, evdev.KEY_X,
		evdev.KEY_Y, evdev.KEY_Z,
	}
	evdevDigits = []evdev.EvCode{
		evdev.KEY_1, evdev.KEY_2, evdev.KEY_3, evdev.KEY_4, evdev.KEY_5,
		evdev.KEY_6, evdev.KEY_7, evdev.KEY_8, evdev.KEY_9, evdev.KEY_0,
	}
	evdevFunctions = []evdev.EvCode{
		evdev.KEY_F1, evdev.KEY_F2, evdev.KEY_F3, evdev.KEY_F4, evdev.KEY_F5, evdev.KEY_F6,
		evdev.KEY_F7, evdev.KEY_F8, evdev.KEY_F9, evdev.KEY_F10, evdev.KEY_F11, evdev.KEY_F12,
	}

	keycodesByEvdev = make(map[evdev.EvCode]model.Keycode)
)

func init() {
	for i, c := range evdevLetters {
		evdevCodes[KC_A+model.Keycode(i)] = c
	}

	for i, c := range evdevDigits {
		evdevCodes[KC_1+model.Keycode(i)] = c
	}

	for i, c := range evdevFunctions {
		evdevCodes[KC_F1+model.Keycode(i)] = c
	}

	for k, c := range evdevCodes {
		keycodesByEvdev[c] = k
	}
}

// EvdevCode maps a basic keycode to the Linux input event code.
func EvdevCode(code model.Keycode) (evdev.EvCode, bool) {
	c, ok := evdevCodes[code]

	return c, ok
}

// KeycodeFromEvdev maps a Linux input event code back to a basic keycode.
func KeycodeFromEvdev(code evdev.EvCode) (model.Keycode, bool) {
	k, ok := keycodesByEvdev[code]

	return k, ok
}

// EvdevCodes lists every mappable code, for declaring uinput capabilities.
func EvdevCodes() []evdev.EvCode {
	result := make([]evdev.EvCode, 0, len(evdevCodes))
	for _, c := range evdevCodes {
		result = append(result, c)
	}

	return result
}
