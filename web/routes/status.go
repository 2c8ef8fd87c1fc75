package routes

import (
	"log/slog"
	"net/http"

	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/swapper"
	cs "github.com/filbar/swapper/web/components"
)

func (s *ServerHandler) label(code model.Keycode) string {
	if s.Names == nil {
		return code.String()
	}

	return s.Names.Label(code)
}

func (s *ServerHandler) name(code model.Keycode) string {
	if s.Names == nil {
		return code.String()
	}

	return s.Names.Name(code)
}

// BuildStatusRenderContext joins binding states with their balances and labels the
// press counts. Bindings keep registration order.
func (s *ServerHandler) BuildStatusRenderContext(stats []model.MinimalKeyEvent) cs.RenderContext {
	balances := make(map[string]swapper.Balance)

	if s.Balances != nil {
		for _, b := range s.Balances.Balances() {
			balances[b.Binding] = b
		}
	}

	rows := make([]cs.BindingRow, 0)

	if s.States != nil {
		for _, st := range s.States.States() {
			b := balances[st.Binding.Name]

			rows = append(rows, cs.BindingRow{
				Name:         st.Binding.Name,
				Modifier:     s.name(st.Binding.Modifier),
				Trigger:      s.name(st.Binding.Trigger),
				Activation:   s.name(st.Binding.Activation),
				Label:        s.label(st.Binding.Activation),
				Active:       st.Active,
				ModifierDown: b.ModifierDown,
				ModifierUp:   b.ModifierUp,
				TriggerDown:  b.TriggerDown,
				TriggerUp:    b.TriggerUp,
				Violated:     b.Violated,
			})
		}
	}

	keys := make([]cs.KeyItem, 0, len(stats))
	maxVal := 0

	for _, st := range stats {
		if maxVal < st.Count {
			maxVal = st.Count
		}

		keys = append(keys, cs.KeyItem{
			Keycode: st.Keycode,
			Name:    s.name(st.Keycode),
			Label:   s.label(st.Keycode),
			Count:   st.Count,
		})
	}

	return cs.RenderContext{Bindings: rows, Keys: keys, MaxVal: maxVal}
}

func (s *ServerHandler) gather(w http.ResponseWriter) (cs.RenderContext, bool) {
	curStats, err := s.Storage.GatherAll()
	if err != nil {
		slog.Error("Could not get stats", "error", err)

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return cs.RenderContext{}, false
	}

	return s.BuildStatusRenderContext(curStats), true
}

func (s *ServerHandler) StatusHandle(w http.ResponseWriter, _ *http.Request) {
	slog.Debug("Got request to status page")

	renderContext, ok := s.gather(w)
	if !ok {
		return
	}

	if err := SafeRenderTemplate(cs.StatusPage(&renderContext), w); err != nil {
		slog.Error("Could not render status page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// StateHandle serves the same data as the status page as JSON.
func (s *ServerHandler) StateHandle(w http.ResponseWriter, _ *http.Request) {
	renderContext, ok := s.gather(w)
	if !ok {
		return
	}

	if err := WriteJSON(renderContext, w); err != nil {
		slog.Error("Could not write state", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
