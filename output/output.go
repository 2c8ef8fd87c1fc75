package output

import (
	"log/slog"
	"sync"

	"github.com/filbar/swapper/model"
)

// Sink receives key transitions destined for the host.
type Sink interface {
	Emit(code model.Keycode, down bool)
}

// Discard drops every emission.
type Discard struct{}

func (Discard) Emit(model.Keycode, bool) {}

// LogSink writes every emission to the structured log.
type LogSink struct {
	Logger *slog.Logger
	Names  func(model.Keycode) string
}

func NewLogSink(names func(model.Keycode) string) *LogSink {
	return &LogSink{Logger: slog.Default(), Names: names}
}

func (s *LogSink) Emit(code model.Keycode, down bool) {
	name := code.String()
	if s.Names != nil {
		name = s.Names(code)
	}

	s.Logger.Info("emit", "key", name, "code", code, "down", down)
}

// Recorder keeps emissions in memory.
type Recorder struct {
	emissions []model.Emission
	lock      sync.Mutex
}

func (r *Recorder) Emit(code model.Keycode, down bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.emissions = append(r.emissions, model.Emission{Keycode: code, Down: down})
}

// Emissions returns a copy of everything recorded so far.
func (r *Recorder) Emissions() []model.Emission {
	r.lock.Lock()
	defer r.lock.Unlock()

	result := make([]model.Emission, len(r.emissions))
	copy(result, r.emissions)

	return result
}

func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.emissions = nil
}

type multiSink []Sink

// Multi fans every emission out to all sinks in order.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Emit(code model.Keycode, down bool) {
	for _, s := range m {
		s.Emit(code, down)
	}
}
