// Package parser reads key events from the keyboard console. Firmware key logging prints
// one line per transition:
//
//	KL: kc: 0x002B, col:  1, row:  2, pressed: 1, time: 12345, int: 0, count: 0
//
// The swapper feature also prints a bare "KL: kc: 0x7E41" without a newline on activation,
// so the following record arrives glued to it. Only the last record of a line counts.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/filbar/swapper/model"
)

const recordPrefix = "KL:"

const (
	foundKeycode = 1 << iota
	foundCol
	foundRow
	foundPressed

	foundRequired = foundKeycode | foundCol | foundRow | foundPressed
)

func parseUint(field, value string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(value, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("could not parse %s: %w", field, err)
	}

	return n, nil
}

func parseFlag(field, value string) (bool, error) {
	switch value {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("%s value unexpected: '%s'", field, value)
	}
}

// ParseLine returns the event in line, nil if the line is not a key log record, or an
// error when a record is malformed.
func ParseLine(line string) (*model.KeyEvent, error) {
	// Trim the reset escape code some consoles append.
	line = strings.ReplaceAll(line, "\x1b[0m", "")

	if ix := strings.LastIndex(line, recordPrefix); ix > 0 {
		line = line[ix:]
	}

	splits := strings.Fields(line)

	var (
		event model.KeyEvent
		found int
		n     uint64
		err   error
	)

	ix := 0
	limit := len(splits) - 1 // We always care about the next token, so stop before it's too late

	for ix < limit {
		curItem := splits[ix]
		nextItem := strings.TrimRight(splits[ix+1], ",")

		switch curItem {
		case "kc:":
			if n, err = parseUint("keycode", nextItem, 16); err != nil {
				return nil, err
			}

			event.Keycode = model.Keycode(n)
			found |= foundKeycode
			ix++
		case "col:":
			if n, err = parseUint("col", nextItem, 8); err != nil {
				return nil, err
			}

			event.Col = int(n)
			found |= foundCol
			ix++
		case "row:":
			if n, err = parseUint("row", nextItem, 8); err != nil {
				return nil, err
			}

			event.Row = int(n)
			found |= foundRow
			ix++
		case "pressed:":
			if event.Pressed, err = parseFlag("pressed", nextItem); err != nil {
				return nil, err
			}

			found |= foundPressed
			ix++
		case "time:":
			if n, err = parseUint("time", nextItem, 16); err != nil {
				return nil, err
			}

			event.Time = uint16(n)
			ix++
		case "int:":
			if event.Interrupted, err = parseFlag("int", nextItem); err != nil {
				return nil, err
			}

			ix++
		case "count:":
			if n, err = parseUint("count", nextItem, 8); err != nil {
				return nil, err
			}

			event.TapCount = int(n)
			ix++
		default:
		}

		ix++
	}

	if found&foundRequired == foundRequired {
		return &event, nil
	}

	return nil, nil
}
