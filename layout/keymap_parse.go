package layout

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/filbar/swapper/model"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// SwapperFunc is the keymap function whose calls declare bindings:
//
//	update_swapper(&sw_app_active, KC_LGUI, KC_TAB, SW_APP, keycode, record);
const SwapperFunc = "update_swapper"

type CustomKeycode struct {
	Name string
	Code model.Keycode
}

// Keymap holds what could be imported from a QMK keymap.c.
type Keymap struct {
	Keycodes []CustomKeycode
	Bindings []model.Binding
}

func parse(source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

	//nolint:wrapcheck
	return parser.ParseCtx(context.Background(), nil, source)
}

func matchAll(pattern string, root *sitter.Node, source []byte, capture string) ([]*sitter.Node, error) {
	q, err := sitter.NewQuery([]byte(pattern), c.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", pattern, err)
	}

	qc := sitter.NewQueryCursor()
	qc.Exec(q, root)

	var nodes []*sitter.Node

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		// Apply predicates filtering
		m = qc.FilterPredicates(m, source)
		if m == nil {
			continue
		}

		for _, cpt := range m.Captures {
			if q.CaptureNameForId(cpt.Index) == capture && cpt.Node != nil {
				nodes = append(nodes, cpt.Node)
			}
		}
	}

	return nodes, nil
}

func namedChildrenOfType(node *sitter.Node, typ string) []*sitter.Node {
	result := make([]*sitter.Node, 0, node.NamedChildCount())

	for i := range int(node.NamedChildCount()) {
		child := node.NamedChild(i)
		if child.Type() == typ || (typ == "" && child.Type() != "comment") {
			result = append(result, child)
		}
	}

	return result
}

// parseKeycodeEnums registers members of enums that start at SAFE_RANGE (or at any other
// known keycode). Other enums, such as layer lists, are skipped.
func parseKeycodeEnums(root *sitter.Node, source []byte, reg *Registry) ([]CustomKeycode, error) {
	lists, err := matchAll(`(enum_specifier body: (enumerator_list) @body)`, root, source, "body")
	if err != nil {
		return nil, err
	}

	var result []CustomKeycode

	for _, list := range lists {
		inKeycodes := false

		var next model.Keycode

		for _, e := range namedChildrenOfType(list, "enumerator") {
			name := e.ChildByFieldName("name").Content(source)

			if value := e.ChildByFieldName("value"); value != nil {
				text := value.Content(source)

				code, err := reg.Parse(text)

				switch {
				case err == nil && (inKeycodes || !isNumeric(text)):
					inKeycodes = true
					next = code
				default:
					inKeycodes = false
				}
			}

			if !inKeycodes {
				continue
			}

			reg.Register(name, next)
			result = append(result, CustomKeycode{Name: name, Code: next})
			next++
		}
	}

	return result, nil
}

func isNumeric(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func parseSwapperCalls(root *sitter.Node, source []byte, reg *Registry) ([]model.Binding, error) {
	calls, err := matchAll(
		`((call_expression function: (identifier) @fn) @call (#eq? @fn "`+SwapperFunc+`"))`,
		root, source, "call")
	if err != nil {
		return nil, err
	}

	bindings := make([]model.Binding, 0, len(calls))

	for _, call := range calls {
		line := call.StartPoint().Row + 1

		args := namedChildrenOfType(call.ChildByFieldName("arguments"), "")
		if len(args) < 4 {
			return nil, fmt.Errorf("line %d: %s needs at least 4 arguments, got %d", line, SwapperFunc, len(args))
		}

		flag := args[0]
		if flag.Type() == "pointer_expression" {
			flag = flag.ChildByFieldName("argument")
		}

		codes := make([]model.Keycode, 3)

		for i, arg := range args[1:4] {
			code, err := reg.Parse(arg.Content(source))
			if err != nil {
				return nil, fmt.Errorf("line %d: argument %d: %w", line, i+2, err)
			}

			codes[i] = code
		}

		bindings = append(bindings, model.Binding{
			Name:       BindingName(flag.Content(source)),
			Modifier:   codes[0],
			Trigger:    codes[1],
			Activation: codes[2],
		})
	}

	return bindings, nil
}

// BindingName derives a binding name from its state flag: sw_app_active -> app.
func BindingName(flag string) string {
	name := strings.TrimSuffix(strings.TrimPrefix(flag, "sw_"), "_active")
	if name == "" {
		return flag
	}

	return name
}

// ImportKeymap reads a QMK keymap.c, registers its custom keycodes into reg and returns
// the bindings declared by update_swapper calls, in source order.
func ImportKeymap(r io.Reader, reg *Registry) (*Keymap, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	tree, err := parse(source)
	if err != nil {
		return nil, fmt.Errorf("error parsing treesitter tree: %w", err)
	}

	keycodes, err := parseKeycodeEnums(tree.RootNode(), source, reg)
	if err != nil {
		return nil, fmt.Errorf("error reading keycode enums: %w", err)
	}

	bindings, err := parseSwapperCalls(tree.RootNode(), source, reg)
	if err != nil {
		return nil, fmt.Errorf("error reading %s calls: %w", SwapperFunc, err)
	}

	return &Keymap{Keycodes: keycodes, Bindings: bindings}, nil
}

// ImportKeymapFile is ImportKeymap over a file path.
func ImportKeymapFile(path string, reg *Registry) (*Keymap, error) {
	file, err := OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("could not open keymap file %s: %w", path, err)
	}
	defer file.Close()

	return ImportKeymap(file, reg)
}
