package routes_test

import (
	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/swapper"
)

var (
	appBinding = model.Binding{Name: "app", Modifier: 0xE3, Trigger: 0x2B, Activation: 0x7E41}
	winBinding = model.Binding{Name: "win", Modifier: 0xE3, Trigger: 0x35, Activation: 0x7E42}
)

// SimpleStorageMock returns canned press counts.
type SimpleStorageMock struct {
	ReturnStats []model.MinimalKeyEvent
	ReturnError error
	CallCount   int
}

func (m *SimpleStorageMock) GatherAll() ([]model.MinimalKeyEvent, error) {
	m.CallCount++
	return m.ReturnStats, m.ReturnError
}

type StateSourceMock struct {
	ReturnStates []model.BindingState
}

func (m *StateSourceMock) States() []model.BindingState {
	return m.ReturnStates
}

type BalanceSourceMock struct {
	ReturnBalances []swapper.Balance
}

func (m *BalanceSourceMock) Balances() []swapper.Balance {
	return m.ReturnBalances
}

// NamerMock names every key by a fixed table and falls back to hex.
type NamerMock map[model.Keycode]string

func (m NamerMock) Name(code model.Keycode) string {
	if n, ok := m[code]; ok {
		return n
	}

	return code.String()
}

func (m NamerMock) Label(code model.Keycode) string {
	return "label:" + m.Name(code)
}
