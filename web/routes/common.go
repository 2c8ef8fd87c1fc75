package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/swapper"
)

type StatsSource interface {
	GatherAll() ([]model.MinimalKeyEvent, error)
}

type StateSource interface {
	States() []model.BindingState
}

type BalanceSource interface {
	Balances() []swapper.Balance
}

type KeyNamer interface {
	Name(code model.Keycode) string
	Label(code model.Keycode) string
}

// ServerHandler holds all dependencies needed for the web server handlers.
type ServerHandler struct {
	Storage  StatsSource
	States   StateSource
	Balances BalanceSource
	Names    KeyNamer
}

// SafeRenderTemplate safely renders a templ component to an http.ResponseWriter.
func SafeRenderTemplate(component templ.Component, w http.ResponseWriter) error {
	// Do not write to w because it implies 200 status
	var buf bytes.Buffer

	err := component.Render(context.Background(), &buf)
	if err != nil {
		return fmt.Errorf("could not render template: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}

// WriteJSON encodes v before touching w, so encoding failures can still become a 500.
func WriteJSON(v any, w http.ResponseWriter) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}
