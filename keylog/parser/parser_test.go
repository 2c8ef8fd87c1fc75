package parser_test

import (
	"testing"

	"github.com/filbar/swapper/keylog/parser"
	"github.com/filbar/swapper/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parseLineTest struct {
	name           string
	line           string
	expectedResult *model.KeyEvent
}
type errorLineTest struct {
	name string
	line string
}

func TestParseLine(t *testing.T) {
	testCases := []parseLineTest{
		{
			"correct full line",
			`KL: kc: 0x002B, col:  1, row:  2, pressed: 0, time: 12345, int: 0, count: 0`,
			&model.KeyEvent{Keycode: 0x2B, Row: 2, Col: 1, Pressed: false, Time: 12345},
		},
		{
			"custom keycode pressed",
			`KL: kc: 0x7E41, col: 10, row:  3, pressed: 1, time:   987, int: 1, count: 2`,
			&model.KeyEvent{Keycode: 0x7E41, Row: 3, Col: 10, Pressed: true, Time: 987, Interrupted: true, TapCount: 2},
		},
		{
			"trims escape code at end",
			"KL: kc: 0x0004, col: 0, row: 0, pressed: 1, time: 1, int: 0, count: 0\x1b[0m",
			&model.KeyEvent{Keycode: 0x04, Pressed: true, Time: 1},
		},
		{
			"without timing fields",
			"KL: kc: 0x0035, col: 5, row: 1, pressed: 1",
			&model.KeyEvent{Keycode: 0x35, Row: 1, Col: 5, Pressed: true},
		},
		{
			"with prefix from console",
			"Filbar:Lily58:1: KL: kc: 0x00E3, col: 0, row: 4, pressed: 0, time: 5, int: 0, count: 0",
			&model.KeyEvent{Keycode: 0xE3, Row: 4, Col: 0, Time: 5},
		},
		{
			"release glued to activation fragment",
			"KL: kc: 0x7E41KL: kc: 0x7E41, col:  0, row:  3, pressed: 0, time: 12399, int: 0, count: 0",
			&model.KeyEvent{Keycode: 0x7E41, Row: 3, Col: 0, Pressed: false, Time: 12399},
		},
		{
			"prefix and glued fragment",
			"Filbar:Lily58:1: KL: kc: 0x7E42KL: kc: 0x7E42, col: 1, row: 3, pressed: 1, time: 7, int: 0, count: 0",
			&model.KeyEvent{Keycode: 0x7E42, Row: 3, Col: 1, Pressed: true, Time: 7},
		},
	}

	for _, item := range testCases {
		t.Run("parses "+item.name, func(t *testing.T) {
			res, err := parser.ParseLine(item.line)

			require.NoError(t, err)

			assert.Equal(t, item.expectedResult, res)
		})
	}

	skipped := []string{
		"",
		"Listening:",
		"KL: kc: 0x002B, col: 1, row: 2",
		"kc: 0x002B",
		"KL: kc: 0x7E41",
	}

	for _, line := range skipped {
		t.Run("skips '"+line+"'", func(t *testing.T) {
			res, err := parser.ParseLine(line)

			require.NoError(t, err)
			assert.Nil(t, res)
		})
	}

	errorTestCases := []errorLineTest{
		{
			"pressed=gobble",
			"KL: kc: 0x002B, col: 1, row: 2, pressed: t, time: 1, int: 0, count: 0",
		},
		{
			"keycode malformed",
			"KL: kc: 0xZZ, col: 1, row: 2, pressed: 1, time: 1, int: 0, count: 0",
		},
		{
			"keycode too large",
			"KL: kc: 0x10000, col: 1, row: 2, pressed: 1, time: 1, int: 0, count: 0",
		},
		{
			"row malformed",
			"KL: kc: 0x002B, col: 1, row: :, pressed: 1, time: 1, int: 0, count: 0",
		},
		{
			"col malformed",
			"KL: kc: 0x002B, col: k, row: 2, pressed: 1, time: 1, int: 0, count: 0",
		},
		{
			"interrupted malformed",
			"KL: kc: 0x002B, col: 1, row: 2, pressed: 1, time: 1, int: 7, count: 0",
		},
	}

	for _, item := range errorTestCases {
		t.Run("does not parse "+item.name, func(t *testing.T) {
			res, err := parser.ParseLine(item.line)

			require.Error(t, err)
			assert.Nil(t, res)
		})
	}
}

var result *model.KeyEvent

func BenchmarkParseLine(b *testing.B) {
	line := "KL: kc: 0x002B, col:  1, row:  2, pressed: 0, time: 12345, int: 0, count: 0\x1b[0m"

	var r *model.KeyEvent

	for range b.N {
		r, _ = parser.ParseLine(line)
	}

	result = r
}
