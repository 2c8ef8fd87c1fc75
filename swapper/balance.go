package swapper

import (
	"slices"
	"sync"

	"github.com/filbar/swapper/model"
)

// Balance counts what one binding has sent to the host.
type Balance struct {
	Binding      string
	ModifierDown int
	ModifierUp   int
	TriggerDown  int
	TriggerUp    int
	// Set once the modifier balance has ever left {0, 1}.
	Violated bool
}

// Outstanding is the number of modifier presses the host has not seen released.
func (b Balance) Outstanding() int {
	return b.ModifierDown - b.ModifierUp
}

func (b Balance) check() bool {
	outstanding := b.Outstanding()

	return outstanding >= 0 && outstanding <= 1
}

// BalanceTracker audits the down/up pairing of every binding's emissions. The host
// tracks keys by count, so a binding must never have more than one unreleased
// modifier press and never release more than it pressed.
type BalanceTracker struct {
	bindings  map[string]model.Binding
	balances  map[string]*Balance
	order     []string
	stateLock sync.RWMutex
}

func NewBalanceTracker(bindings []model.Binding) *BalanceTracker {
	t := &BalanceTracker{
		bindings: make(map[string]model.Binding, len(bindings)),
		balances: make(map[string]*Balance, len(bindings)),
	}

	for _, b := range bindings {
		t.bindings[b.Name] = b
		t.balances[b.Name] = &Balance{Binding: b.Name}
		t.order = append(t.order, b.Name)
	}

	return t
}

func (t *BalanceTracker) Track(binding string, e model.Emission) {
	t.stateLock.Lock()
	defer t.stateLock.Unlock()

	b, ok := t.bindings[binding]
	if !ok {
		return
	}

	bal := t.balances[binding]

	switch e.Keycode {
	case b.Modifier:
		if e.Down {
			bal.ModifierDown++
		} else {
			bal.ModifierUp++
		}
	case b.Trigger:
		if e.Down {
			bal.TriggerDown++
		} else {
			bal.TriggerUp++
		}
	}

	if !bal.check() {
		bal.Violated = true
	}
}

// Outstanding returns unreleased modifier presses for the binding.
func (t *BalanceTracker) Outstanding(binding string) int {
	t.stateLock.RLock()
	defer t.stateLock.RUnlock()

	if bal, ok := t.balances[binding]; ok {
		return bal.Outstanding()
	}

	return 0
}

// Balances returns a snapshot in registration order.
func (t *BalanceTracker) Balances() []Balance {
	t.stateLock.RLock()
	defer t.stateLock.RUnlock()

	result := make([]Balance, 0, len(t.order))
	for _, name := range t.order {
		result = append(result, *t.balances[name])
	}

	return result
}

// Violations lists bindings whose balance has ever been broken.
func (t *BalanceTracker) Violations() []string {
	result := make([]string, 0)

	for _, b := range t.Balances() {
		if b.Violated {
			result = append(result, b.Binding)
		}
	}

	return slices.Clip(result)
}
