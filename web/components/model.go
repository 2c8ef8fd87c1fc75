package components

import "github.com/filbar/swapper/model"

type BindingRow struct {
	Name         string `json:"name"`
	Modifier     string `json:"modifier"`
	Trigger      string `json:"trigger"`
	Activation   string `json:"activation"`
	Label        string `json:"label"`
	Active       bool   `json:"active"`
	ModifierDown int    `json:"modifierDown"`
	ModifierUp   int    `json:"modifierUp"`
	TriggerDown  int    `json:"triggerDown"`
	TriggerUp    int    `json:"triggerUp"`
	Violated     bool   `json:"violated"`
}

// Outstanding is the number of modifier presses not yet released.
func (b BindingRow) Outstanding() int {
	return b.ModifierDown - b.ModifierUp
}

func (b BindingRow) StateText() string {
	if b.Active {
		return "holding"
	}

	return "idle"
}

type KeyItem struct {
	Keycode model.Keycode `json:"keycode"`
	Name    string        `json:"name"`
	Label   string        `json:"label"`
	Count   int           `json:"count"`
}

type RenderContext struct {
	Bindings []BindingRow `json:"bindings"`
	Keys     []KeyItem    `json:"keys"`
	MaxVal   int          `json:"maxVal"`
}

// HeatPercent scales count against the busiest key, 0..100.
func (c *RenderContext) HeatPercent(count int) int {
	if c.MaxVal <= 0 || count <= 0 {
		return 0
	}

	return count * 100 / c.MaxVal
}

func (c *RenderContext) HasViolations() bool {
	for _, b := range c.Bindings {
		if b.Violated {
			return true
		}
	}

	return false
}
