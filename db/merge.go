package db

import (
	"fmt"
	"log/slog"

	"github.com/filbar/swapper/logging"
)

var logCtx = logging.PackageCtx("db")

// Merge copies every event and emission of inputs into output. Timestamps are kept, so
// replaying the result interleaves the sessions in time order.
func Merge(inputs []*SQLiteStorage, output *SQLiteStorage) error {
	for i, input := range inputs {
		events, err := input.AllIterator()
		if err != nil {
			return fmt.Errorf("could not read input %d: %w", i, err)
		}

		count := 0

		for e := range events {
			if err := output.Store(&e); err != nil {
				return fmt.Errorf("could not copy event from input %d: %w", i, err)
			}

			count++
		}

		emissions, err := input.allEmissions()
		if err != nil {
			return fmt.Errorf("could not read emissions of input %d: %w", i, err)
		}

		for _, e := range emissions {
			if err := output.storeEmissionAt(e.binding, e.emission, e.timestamp); err != nil {
				return fmt.Errorf("could not copy emission from input %d: %w", i, err)
			}
		}

		slog.InfoContext(logCtx, "merged input", "index", i, "events", count, "emissions", len(emissions))
	}

	return nil
}
