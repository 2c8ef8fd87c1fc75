package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/filbar/swapper/model"
)

// Basic keycodes are HID keyboard usage ids, as in QMK.
const (
	KC_NO          model.Keycode = 0x00
	KC_A           model.Keycode = 0x04
	KC_Z           model.Keycode = 0x1D
	KC_1           model.Keycode = 0x1E
	KC_0           model.Keycode = 0x27
	KC_ENTER       model.Keycode = 0x28
	KC_ESCAPE      model.Keycode = 0x29
	KC_BACKSPACE   model.Keycode = 0x2A
	KC_TAB         model.Keycode = 0x2B
	KC_SPACE       model.Keycode = 0x2C
	KC_MINUS       model.Keycode = 0x2D
	KC_EQUAL       model.Keycode = 0x2E
	KC_LBRACKET    model.Keycode = 0x2F
	KC_RBRACKET    model.Keycode = 0x30
	KC_BACKSLASH   model.Keycode = 0x31
	KC_SEMICOLON   model.Keycode = 0x33
	KC_QUOTE       model.Keycode = 0x34
	KC_GRAVE       model.Keycode = 0x35
	KC_COMMA       model.Keycode = 0x36
	KC_DOT         model.Keycode = 0x37
	KC_SLASH       model.Keycode = 0x38
	KC_CAPS_LOCK   model.Keycode = 0x39
	KC_F1          model.Keycode = 0x3A
	KC_F12         model.Keycode = 0x45
	KC_HOME        model.Keycode = 0x4A
	KC_PAGE_UP     model.Keycode = 0x4B
	KC_DELETE      model.Keycode = 0x4C
	KC_END         model.Keycode = 0x4D
	KC_PAGE_DOWN   model.Keycode = 0x4E
	KC_RIGHT       model.Keycode = 0x4F
	KC_LEFT        model.Keycode = 0x50
	KC_DOWN        model.Keycode = 0x51
	KC_UP          model.Keycode = 0x52
	KC_LEFT_CTRL   model.Keycode = 0xE0
	KC_LEFT_SHIFT  model.Keycode = 0xE1
	KC_LEFT_ALT    model.Keycode = 0xE2
	KC_LEFT_GUI    model.Keycode = 0xE3
	KC_RIGHT_CTRL  model.Keycode = 0xE4
	KC_RIGHT_SHIFT model.Keycode = 0xE5
	KC_RIGHT_ALT   model.Keycode = 0xE6
	KC_RIGHT_GUI   model.Keycode = 0xE7

	// SAFE_RANGE is the first keycode available to keymaps (QK_USER).
	SAFE_RANGE model.Keycode = 0x7E40
)

// Keycodes used by the default app and window switcher bindings.
const (
	SW_APP = SAFE_RANGE + 1
	SW_WIN = SAFE_RANGE + 2
)

var ErrUnknownKeycode = errors.New("unknown keycode")

// Names of basic keycodes. The first name of a code is its canonical one.
var basicNames = []struct {
	code  model.Keycode
	names []string
}{
	{KC_NO, []string{"KC_NO", "XXXXXXX"}},
	{KC_ENTER, []string{"KC_ENTER", "KC_ENT"}},
	{KC_ESCAPE, []string{"KC_ESCAPE", "KC_ESC"}},
	{KC_BACKSPACE, []string{"KC_BACKSPACE", "KC_BSPC"}},
	{KC_TAB, []string{"KC_TAB"}},
	{KC_SPACE, []string{"KC_SPACE", "KC_SPC"}},
	{KC_MINUS, []string{"KC_MINUS", "KC_MINS"}},
	{KC_EQUAL, []string{"KC_EQUAL", "KC_EQL"}},
	{KC_LBRACKET, []string{"KC_LEFT_BRACKET", "KC_LBRC"}},
	{KC_RBRACKET, []string{"KC_RIGHT_BRACKET", "KC_RBRC"}},
	{KC_BACKSLASH, []string{"KC_BACKSLASH", "KC_BSLS"}},
	{KC_SEMICOLON, []string{"KC_SEMICOLON", "KC_SCLN"}},
	{KC_QUOTE, []string{"KC_QUOTE", "KC_QUOT"}},
	{KC_GRAVE, []string{"KC_GRAVE", "KC_GRV"}},
	{KC_COMMA, []string{"KC_COMMA", "KC_COMM"}},
	{KC_DOT, []string{"KC_DOT"}},
	{KC_SLASH, []string{"KC_SLASH", "KC_SLSH"}},
	{KC_CAPS_LOCK, []string{"KC_CAPS_LOCK", "KC_CAPS"}},
	{KC_HOME, []string{"KC_HOME"}},
	{KC_PAGE_UP, []string{"KC_PAGE_UP", "KC_PGUP"}},
	{KC_DELETE, []string{"KC_DELETE", "KC_DEL"}},
	{KC_END, []string{"KC_END"}},
	{KC_PAGE_DOWN, []string{"KC_PAGE_DOWN", "KC_PGDN"}},
	{KC_RIGHT, []string{"KC_RIGHT", "KC_RGHT"}},
	{KC_LEFT, []string{"KC_LEFT"}},
	{KC_DOWN, []string{"KC_DOWN"}},
	{KC_UP, []string{"KC_UP"}},
	{KC_LEFT_CTRL, []string{"KC_LEFT_CTRL", "KC_LCTL"}},
	{KC_LEFT_SHIFT, []string{"KC_LEFT_SHIFT", "KC_LSFT"}},
	{KC_LEFT_ALT, []string{"KC_LEFT_ALT", "KC_LALT", "KC_LOPT"}},
	{KC_LEFT_GUI, []string{"KC_LEFT_GUI", "KC_LGUI", "KC_LCMD", "KC_LWIN"}},
	{KC_RIGHT_CTRL, []string{"KC_RIGHT_CTRL", "KC_RCTL"}},
	{KC_RIGHT_SHIFT, []string{"KC_RIGHT_SHIFT", "KC_RSFT"}},
	{KC_RIGHT_ALT, []string{"KC_RIGHT_ALT", "KC_RALT", "KC_ROPT"}},
	{KC_RIGHT_GUI, []string{"KC_RIGHT_GUI", "KC_RGUI", "KC_RCMD", "KC_RWIN"}},
}

// Registry resolves keycode names both ways. Custom keycodes from a keymap are added
// with Register.
type Registry struct {
	byName map[string]model.Keycode
	byCode map[model.Keycode]string
	lock   sync.RWMutex
}

// NewRegistry returns a registry holding the basic keycodes and the default switcher
// keycodes.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]model.Keycode),
		byCode: make(map[model.Keycode]string),
	}

	for i := range 26 {
		r.Register("KC_"+string(rune('A'+i)), KC_A+model.Keycode(i))
	}

	// KC_1 .. KC_9 come first, KC_0 last, following the HID usage table.
	for i := range 10 {
		r.Register("KC_"+strconv.Itoa((i+1)%10), KC_1+model.Keycode(i))
	}

	for i := range 12 {
		r.Register("KC_F"+strconv.Itoa(i+1), KC_F1+model.Keycode(i))
	}

	for _, b := range basicNames {
		for _, n := range b.names {
			r.Register(n, b.code)
		}
	}

	// Name only, so that the keymap's first custom keycode becomes canonical.
	r.byName["SAFE_RANGE"] = SAFE_RANGE
	r.Register("SW_APP", SW_APP)
	r.Register("SW_WIN", SW_WIN)

	return r
}

// Register adds a name for code. The first name registered for a code stays canonical.
// Re-registering a name moves it to the new code.
func (r *Registry) Register(name string, code model.Keycode) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if old, ok := r.byName[name]; ok && old != code && r.byCode[old] == name {
		delete(r.byCode, old)
	}

	r.byName[name] = code
	if _, ok := r.byCode[code]; !ok {
		r.byCode[code] = name
	}
}

// Parse accepts a keycode name ("KC_TAB", "SW_APP") or a numeric literal ("0x2B", "43").
func (r *Registry) Parse(s string) (model.Keycode, error) {
	s = strings.TrimSpace(s)

	r.lock.RLock()
	code, ok := r.byName[s]
	r.lock.RUnlock()

	if ok {
		return code, nil
	}

	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKeycode, s)
	}

	return model.Keycode(n), nil
}

// Name returns the canonical name of code, or its hex form when unnamed.
func (r *Registry) Name(code model.Keycode) string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if name, ok := r.byCode[code]; ok {
		return name
	}

	return code.String()
}

// Label returns a short glyph for display.
func (r *Registry) Label(code model.Keycode) string {
	name := r.Name(code)

	if v, ok := labels[strings.TrimPrefix(name, "KC_")]; ok {
		return v
	}

	return strings.TrimPrefix(name, "KC_")
}

// DefaultBindings are the app switcher (cmd-tab) and window switcher (cmd-`).
func DefaultBindings() []model.Binding {
	return []model.Binding{
		{Name: "app", Modifier: KC_LEFT_GUI, Trigger: KC_TAB, Activation: SW_APP},
		{Name: "win", Modifier: KC_LEFT_GUI, Trigger: KC_GRAVE, Activation: SW_WIN},
	}
}
