package keylog

import (
	"context"
	"log/slog"
	"time"

	"github.com/filbar/swapper/keylog/parser"
	"github.com/filbar/swapper/logging"
	"github.com/filbar/swapper/model"
)

// Handler consumes key events in arrival order.
type Handler interface {
	Handle(event model.KeyEvent)
}

type EventStore interface {
	Store(event *model.KeyEventWithTimestamp) error
}

// ParseLines turns console output into key events, stamped with the time of arrival.
// Lines that are not key records are dropped, malformed records are logged and dropped.
func ParseLines(ctx context.Context, lines <-chan string) <-chan model.KeyEventWithTimestamp {
	out := make(chan model.KeyEventWithTimestamp)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					return
				}

				parsed, err := parser.ParseLine(line)
				if err != nil {
					slog.WarnContext(ctx, "could not parse line", "error", err, "line", line)

					continue
				}

				if parsed == nil {
					continue
				}

				select {
				case out <- model.KeyEventWithTimestamp{KeyEvent: *parsed, Timestamp: time.Now()}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// KeyLogLoop stores every event and hands it to handler, until events is closed or ctx
// is done. Events are processed strictly one at a time.
func KeyLogLoop(ctx context.Context, events <-chan model.KeyEventWithTimestamp, storage EventStore, handler Handler, enableLogs bool) {
	ctx = logging.AppendCtx(ctx, slog.String(logging.PackageName, "keylog"))

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Context done, bailing out")

			return
		case event, ok := <-events:
			if !ok {
				slog.InfoContext(ctx, "Received done from readers, bailing out")

				return
			}

			if enableLogs {
				slog.InfoContext(ctx, "Event!", "keycode", event.Keycode, "pressed", event.Pressed, "row", event.Row, "col", event.Col)
			}

			if storage != nil {
				if err := storage.Store(&event); err != nil {
					slog.ErrorContext(ctx, "could not store event", "error", err)
				}
			}

			handler.Handle(event.KeyEvent)
		}
	}
}
