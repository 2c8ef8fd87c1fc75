package db_test

import (
	"testing"
	"time"

	"github.com/filbar/swapper/db"
	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/output"
	"github.com/filbar/swapper/swapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appBinding = model.Binding{Name: "app", Modifier: 0xE3, Trigger: 0x2B, Activation: 0x7E41}

func event(code model.Keycode, pressed bool, ts time.Time) *model.KeyEventWithTimestamp {
	return &model.KeyEventWithTimestamp{
		KeyEvent:  model.KeyEvent{Keycode: code, Pressed: pressed, Row: 1, Col: 2, Time: 77},
		Timestamp: ts,
	}
}

func newStorage(t *testing.T) *db.SQLiteStorage {
	t.Helper()

	storage, err := db.NewStorageFromPath(":memory:", false)
	require.NoError(t, err)

	t.Cleanup(storage.Close)

	return storage
}

func TestStorage(t *testing.T) {
	t.Run("should insert and gather correctly", func(t *testing.T) {
		storage := newStorage(t)

		items, err := storage.GatherAll()
		require.NoError(t, err)
		assert.Empty(t, items)

		ts := time.Now()

		for i := range 10 {
			require.NoError(t, storage.Store(event(0x04, i%2 == 0, ts)))
			ts = ts.Add(time.Millisecond)
		}

		require.NoError(t, storage.Store(event(0x2B, true, ts)))
		require.NoError(t, storage.Store(event(0x2B, false, ts)))

		items, err = storage.GatherAll()
		require.NoError(t, err)

		assert.Equal(t, []model.MinimalKeyEvent{
			{Keycode: 0x04, Count: 5},
			{Keycode: 0x2B, Count: 1},
		}, items)
	})

	t.Run("storages in memory are separate", func(t *testing.T) {
		first := newStorage(t)
		second := newStorage(t)

		require.NoError(t, first.Store(event(0x04, true, time.Now())))

		items, err := second.GatherAll()
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("iterates events in time order", func(t *testing.T) {
		storage := newStorage(t)
		base := time.Now()

		require.NoError(t, storage.Store(event(0x05, true, base.Add(2*time.Second))))
		require.NoError(t, storage.Store(event(0x04, true, base)))
		require.NoError(t, storage.Store(event(0x04, false, base.Add(time.Second))))

		items, err := storage.AllIterator()
		require.NoError(t, err)

		codes := make([]model.Keycode, 0)
		pressed := make([]bool, 0)

		for item := range items {
			codes = append(codes, item.Keycode)
			pressed = append(pressed, item.Pressed)

			assert.Equal(t, 1, item.Row)
			assert.Equal(t, 2, item.Col)
			assert.Equal(t, uint16(77), item.Time)
		}

		assert.Equal(t, []model.Keycode{0x04, 0x04, 0x05}, codes)
		assert.Equal(t, []bool{true, false, true}, pressed)
	})

	t.Run("counts emissions per binding", func(t *testing.T) {
		storage := newStorage(t)

		tracker := output.StoreTracker{Store: storage}
		tracker.Track("app", model.Emission{Keycode: 0xE3, Down: true})
		tracker.Track("app", model.Emission{Keycode: 0x2B, Down: true})
		tracker.Track("app", model.Emission{Keycode: 0x2B, Down: false})
		tracker.Track("app", model.Emission{Keycode: 0xE3, Down: false})
		tracker.Track("win", model.Emission{Keycode: 0xE3, Down: true})

		counts, err := storage.GatherEmissions()
		require.NoError(t, err)

		assert.Equal(t, []model.EmissionCount{
			{Binding: "app", Keycode: 0x2B, Downs: 1, Ups: 1},
			{Binding: "app", Keycode: 0xE3, Downs: 1, Ups: 1},
			{Binding: "win", Keycode: 0xE3, Downs: 1, Ups: 0},
		}, counts)
	})
}

func TestReplay(t *testing.T) {
	storage := newStorage(t)
	base := time.Now()

	stream := []*model.KeyEventWithTimestamp{
		event(0x7E41, true, base),
		event(0x7E41, false, base.Add(100*time.Millisecond)),
		event(0x7E41, true, base.Add(200*time.Millisecond)),
		event(0x7E41, false, base.Add(300*time.Millisecond)),
		event(0x04, true, base.Add(400*time.Millisecond)),
	}

	for _, e := range stream {
		require.NoError(t, storage.Store(e))
	}

	rec := &output.Recorder{}
	balance := swapper.NewBalanceTracker([]model.Binding{appBinding})
	d := swapper.NewDispatcher(rec, []model.Binding{appBinding}, balance)

	count, err := db.Replay(storage, d, false)
	require.NoError(t, err)

	assert.Equal(t, 5, count)
	assert.Equal(t, []swapper.Balance{
		{Binding: "app", ModifierDown: 1, ModifierUp: 1, TriggerDown: 2, TriggerUp: 2},
	}, balance.Balances())
	assert.Len(t, rec.Emissions(), 6)
}

func TestMerge(t *testing.T) {
	base := time.Now()

	left := newStorage(t)
	right := newStorage(t)
	merged := newStorage(t)

	require.NoError(t, left.Store(event(0x7E41, true, base)))
	require.NoError(t, right.Store(event(0x04, true, base.Add(time.Second))))
	require.NoError(t, left.Store(event(0x7E41, false, base.Add(2*time.Second))))
	require.NoError(t, left.StoreEmission("app", model.Emission{Keycode: 0xE3, Down: true}))

	require.NoError(t, db.Merge([]*db.SQLiteStorage{left, right}, merged))

	items, err := merged.AllIterator()
	require.NoError(t, err)

	codes := make([]model.Keycode, 0)
	for item := range items {
		codes = append(codes, item.Keycode)
	}

	assert.Equal(t, []model.Keycode{0x7E41, 0x04, 0x7E41}, codes)

	counts, err := merged.GatherEmissions()
	require.NoError(t, err)
	assert.Equal(t, []model.EmissionCount{{Binding: "app", Keycode: 0xE3, Downs: 1}}, counts)
}
