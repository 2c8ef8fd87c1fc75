package output_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/output"
	"github.com/stretchr/testify/assert"
)

type storeMock struct {
	calls []string
	err   error
}

func (s *storeMock) StoreEmission(binding string, e model.Emission) error {
	s.calls = append(s.calls, binding+" "+e.String())

	return s.err
}

func TestRecorder(t *testing.T) {
	rec := &output.Recorder{}

	rec.Emit(0xE3, true)
	rec.Emit(0x2B, true)

	emissions := rec.Emissions()
	assert.Equal(t, []model.Emission{{Keycode: 0xE3, Down: true}, {Keycode: 0x2B, Down: true}}, emissions)

	emissions[0].Down = false
	assert.True(t, rec.Emissions()[0].Down, "copy must not alias recorder state")

	rec.Reset()
	assert.Empty(t, rec.Emissions())
}

func TestMulti(t *testing.T) {
	first := &output.Recorder{}
	second := &output.Recorder{}

	sink := output.Multi(first, output.Discard{}, second)
	sink.Emit(0x04, true)
	sink.Emit(0x04, false)

	expected := []model.Emission{{Keycode: 0x04, Down: true}, {Keycode: 0x04, Down: false}}
	assert.Equal(t, expected, first.Emissions())
	assert.Equal(t, expected, second.Emissions())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer

	sink := &output.LogSink{
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
		Names:  func(model.Keycode) string { return "KC_TAB" },
	}
	sink.Emit(0x2B, true)

	assert.Contains(t, buf.String(), "key=KC_TAB")
	assert.Contains(t, buf.String(), "down=true")
}

func TestStoreTracker(t *testing.T) {
	t.Run("stores tagged emissions", func(t *testing.T) {
		store := &storeMock{}
		tracker := output.StoreTracker{Store: store}

		tracker.Track("app", model.Emission{Keycode: 0xE3, Down: true})
		tracker.Track("win", model.Emission{Keycode: 0x35, Down: false})

		assert.Equal(t, []string{"app 0x00E3 down", "win 0x0035 up"}, store.calls)
	})

	t.Run("errors are logged, not propagated", func(t *testing.T) {
		store := &storeMock{err: errors.New("disk full")}
		tracker := output.StoreTracker{Store: store}

		assert.NotPanics(t, func() { tracker.Track("app", model.Emission{Keycode: 0xE3, Down: true}) })
		assert.Len(t, store.calls, 1)
	})
}
