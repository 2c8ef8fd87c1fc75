package layout

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// OpenPath opens path as is when absolute, relative to the working directory otherwise.
func OpenPath(path string) (*os.File, error) {
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get working directory: %w", err)
		}

		path = filepath.Join(wd, path)
	}

	slog.Info("Opening path", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}

	return file, nil
}

// Display glyphs, keyed by keycode name without the KC_ prefix.
var labels = map[string]string{
	"LEFT_SHIFT":  "⇧",
	"LSFT":        "⇧",
	"RIGHT_SHIFT": "R⇧",
	"RSFT":        "R⇧",
	"LEFT_CTRL":   "^",
	"LCTL":        "^",
	"RIGHT_CTRL":  "⌃",
	"RCTL":        "⌃",
	"ENTER":       "↵",
	"LEFT_GUI":    "⌘",
	"LGUI":        "⌘",
	"RIGHT_GUI":   "R⌘",
	"RGUI":        "R⌘",
	"LEFT_ALT":    "⌥",
	"LALT":        "⌥",
	"RIGHT_ALT":   "R⌥",
	"RALT":        "R⌥",
	"BACKSPACE":   "⌫",
	"SPACE":       "␣",
	"TAB":         "⇥",
	"ESCAPE":      "⎋",

	"RIGHT":         "→",
	"LEFT":          "←",
	"UP":            "↑",
	"DOWN":          "↓",
	"EQUAL":         "=",
	"COMMA":         ",",
	"LEFT_BRACKET":  "[",
	"RIGHT_BRACKET": "]",
	"DOT":           ".",
	"SEMICOLON":     ";",
	"BACKSLASH":     "\\",
	"SLASH":         "/",
	"QUOTE":         "'",
	"MINUS":         "-",
	"GRAVE":         "`",
	"SW_APP":        "⌘⇥",
	"SW_WIN":        "⌘`",
}
