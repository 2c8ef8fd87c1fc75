package swapper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/filbar/swapper/db"
	"github.com/filbar/swapper/keylog"
	"github.com/filbar/swapper/keylog/ports"
	"github.com/filbar/swapper/layout"
	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/output"
	sw "github.com/filbar/swapper/swapper"
	"github.com/filbar/swapper/web"
	"github.com/filbar/swapper/web/routes"
	"github.com/spf13/cobra"
)

var errInputClosed = errors.New("input closed")

var (
	runFilenames        []string
	runEvdevPath        string
	runGrab             bool
	runMonitor          bool
	runOutput           string
	runStoragePath      string
	runPort             int
	runDisableInterface bool
	runLogEvents        bool
	runDev              bool
)

// buildSink maps the --output mode to a sink and its cleanup.
func buildSink(mode string, reg *layout.Registry) (output.Sink, func(), error) {
	switch mode {
	case "log":
		return output.NewLogSink(reg.Name), func() {}, nil
	case "none":
		return output.Discard{}, func() {}, nil
	case "uinput":
		sink, err := output.NewUinputSink()
		if err != nil {
			return nil, nil, err
		}

		return output.Multi(sink, output.NewLogSink(reg.Name)), func() {
			if err := sink.Close(); err != nil {
				slog.Error("could not close uinput device", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown output %q, expected log, uinput or none", mode)
	}
}

func suggestDevices(cause error) error {
	names, errInner := ports.GetAvailableDevices()
	if errInner != nil {
		return fmt.Errorf("%w; could not suggest devices: %w", cause, errInner)
	}

	if len(names) > 0 {
		return fmt.Errorf("%w. Maybe try instead: %+v", cause, names)
	}

	return fmt.Errorf("%w. It does not seem like any keyboard is connected", cause)
}

// openEvents picks the input: an evdev device, monitored serial consoles, the given
// console files or stdin.
func openEvents(ctx context.Context) (<-chan model.KeyEventWithTimestamp, func(), error) {
	switch {
	case runEvdevPath != "":
		src, err := ports.OpenEvdev(runEvdevPath, runGrab)
		if err != nil {
			return nil, nil, err
		}

		return src.Events(ctx), func() {}, nil
	case runMonitor:
		reader := ports.DefaultMonitoringDeviceReader()

		return keylog.ParseLines(ctx, reader.Channel(ctx)), func() {
			if err := reader.Close(); err != nil {
				slog.Error("could not close devices", "error", err)
			}
		}, nil
	}

	switch len(runFilenames) {
	case 0:
		names, err := ports.GetAvailableDevices()
		if err != nil {
			return nil, nil, err
		}

		slog.Info("Will proceed to read from stdin", "suggested", names)

		return keylog.ParseLines(ctx, ports.ReadFile(os.Stdin)), func() {}, nil
	case 1, 2:
		lines, closer, err := ports.OpenFiles(runFilenames...)
		if err != nil {
			return nil, nil, suggestDevices(fmt.Errorf("error opening files: %w", err))
		}

		return keylog.ParseLines(ctx, lines), closer, nil
	default:
		return nil, nil, fmt.Errorf("expected 0, 1 or 2 files, got %d", len(runFilenames))
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the keyboard and emulate bindings",
	Long: `Reads key events from one or two keyboard consoles (or stdin, or a Linux input device),
runs every binding over them and emits the resulting transitions. Events and emissions are
stored to a sqlite file, and a web page shows the live state.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg, bindings, source, err := effectiveBindings()
		if err != nil {
			return err
		}

		slog.Info("Loaded bindings", "source", source, "count", len(bindings))

		storage, err := db.NewStorageFromPath(runStoragePath, verbose)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", runStoragePath, err)
		}
		defer storage.Close()

		sink, closeSink, err := buildSink(runOutput, reg)
		if err != nil {
			return err
		}
		defer closeSink()

		balance := sw.NewBalanceTracker(bindings)
		dispatcher := sw.NewDispatcher(sink, bindings, balance, output.StoreTracker{Store: storage})
		dispatcher.SetVerbose(verbose)

		for i, b := range dispatcher.Bindings() {
			slog.Debug("Binding", "order", i+1, "name", b.Name,
				"activation", reg.Name(b.Activation), "modifier", reg.Name(b.Modifier), "trigger", reg.Name(b.Trigger))
		}

		events, closeInput, err := openEvents(ctx)
		if err != nil {
			return err
		}
		defer closeInput()

		if !runDisableInterface {
			handler := &routes.ServerHandler{Storage: storage, States: dispatcher, Balances: balance, Names: reg}

			go func() {
				if err := web.StartServer(ctx, runPort, handler, runDev); err != nil {
					slog.Error("Web interface stopped", "error", err)
				}
			}()
		}

		slog.Info("Main loop", "output", runOutput, "storage", runStoragePath)
		keylog.KeyLogLoop(ctx, events, storage, dispatcher, runLogEvents)

		for _, b := range balance.Balances() {
			slog.Info("Binding balance", "binding", b.Binding, "outstanding", b.Outstanding(), "violated", b.Violated)
		}

		if ctx.Err() != nil {
			return nil
		}

		// A non-zero exit lets supervisors restart us when the keyboard goes away.
		return errInputClosed
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVarP(&runFilenames, "file", "f", []string{},
		"Keyboard consoles to read from, one per half; stdin when empty")
	runCmd.Flags().StringVar(&runEvdevPath, "evdev", "",
		"Read key events from this Linux input device instead of a console")
	runCmd.Flags().BoolVar(&runGrab, "grab", false,
		"Grab the evdev device so that only swapper sees its events")
	runCmd.Flags().BoolVar(&runMonitor, "monitor", false,
		"Watch for keyboard consoles and (re)connect to them as they appear")
	runCmd.Flags().StringVar(&runOutput, "output", "log",
		"Where emissions go: log, uinput or none")
	runCmd.Flags().StringVarP(&runStoragePath, "out", "o", "./swapper.sqlite",
		"Output path for the session database")
	runCmd.Flags().IntVarP(&runPort, "port", "p", 3000,
		"Port on which server should be watching")
	runCmd.Flags().BoolVar(&runDisableInterface, "no-interface", false,
		"If provided, no web server will be run")
	runCmd.Flags().BoolVar(&runLogEvents, "log-events", false,
		"Log every key event received")
	runCmd.Flags().BoolVar(&runDev, "dev", false,
		"Enable developer mode")
}
