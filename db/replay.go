package db

import (
	"fmt"
	"log/slog"

	"github.com/filbar/swapper/model"
	"github.com/schollz/progressbar/v3"
)

type EventHandler interface {
	Handle(event model.KeyEvent)
}

// Replay feeds every stored event to handler in the order it was recorded and returns
// how many events were replayed.
func Replay(storage Storage, handler EventHandler, showProgress bool) (int, error) {
	items, err := storage.AllIterator()
	if err != nil {
		return 0, fmt.Errorf("could not read session: %w", err)
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(-1, "Replaying session...")
	} else {
		bar = progressbar.DefaultSilent(-1)
	}

	count := 0

	for item := range items {
		if err := bar.Add(1); err != nil {
			slog.ErrorContext(logCtx, "could not update progress bar", "error", err)
		}

		handler.Handle(item.KeyEvent)
		count++
	}

	if err := bar.Finish(); err != nil {
		slog.ErrorContext(logCtx, "could not finish progress bar", "error", err)
	}

	return count, nil
}
