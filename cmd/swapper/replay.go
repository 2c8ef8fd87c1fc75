package swapper

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/filbar/swapper/db"
	"github.com/filbar/swapper/layout"
	"github.com/filbar/swapper/model"
	"github.com/filbar/swapper/output"
	sw "github.com/filbar/swapper/swapper"
	"github.com/spf13/cobra"
)

var errUnbalanced = errors.New("unbalanced modifier transitions")

var (
	replayStoragePath string
	replayProgress    bool
	replayEmit        bool
)

// session is the outcome of running a stored session through the bindings.
type session struct {
	dispatcher *sw.Dispatcher
	balance    *sw.BalanceTracker
	events     int
}

func replaySession(storage db.Storage, bindings []model.Binding, sink output.Sink, showProgress bool) (*session, error) {
	balance := sw.NewBalanceTracker(bindings)
	dispatcher := sw.NewDispatcher(sink, bindings, balance)

	count, err := db.Replay(storage, dispatcher, showProgress)
	if err != nil {
		return nil, err
	}

	return &session{dispatcher: dispatcher, balance: balance, events: count}, nil
}

func writeBalanceReport(w io.Writer, s *session) {
	fmt.Fprintf(w, "replayed %d events\n", s.events)
	fmt.Fprintf(w, "%-8s %-8s %9s %9s %9s %9s %11s\n",
		"binding", "state", "mod down", "mod up", "trig down", "trig up", "outstanding")

	active := make(map[string]bool)
	for _, st := range s.dispatcher.States() {
		active[st.Binding.Name] = st.Active
	}

	for _, b := range s.balance.Balances() {
		state := "idle"
		if active[b.Binding] {
			state = "holding"
		}

		mark := ""
		if b.Violated {
			mark = "  VIOLATED"
		}

		fmt.Fprintf(w, "%-8s %-8s %9d %9d %9d %9d %11d%s\n",
			b.Binding, state, b.ModifierDown, b.ModifierUp, b.TriggerDown, b.TriggerUp, b.Outstanding(), mark)
	}
}

func writeStoredEmissions(w io.Writer, reg *layout.Registry, counts []model.EmissionCount) {
	if len(counts) == 0 {
		return
	}

	fmt.Fprintln(w, "emissions recorded during the session:")

	for _, c := range counts {
		fmt.Fprintf(w, "%-8s %-14s down %d up %d\n", c.Binding, reg.Name(c.Keycode), c.Downs, c.Ups)
	}
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a stored session and audit its balance",
	Long: `Runs every stored key event through the bindings again and reports how many modifier
and trigger transitions each binding sent. Exits with an error when a binding ever had more
than one unreleased modifier press or released more than it pressed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, bindings, _, err := effectiveBindings()
		if err != nil {
			return err
		}

		storage, err := db.NewStorageFromPath(replayStoragePath, verbose)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", replayStoragePath, err)
		}
		defer storage.Close()

		var sink output.Sink = output.Discard{}
		if replayEmit {
			sink = output.NewLogSink(reg.Name)
		}

		s, err := replaySession(storage, bindings, sink, replayProgress)
		if err != nil {
			return err
		}

		writeBalanceReport(cmd.OutOrStdout(), s)

		counts, err := storage.GatherEmissions()
		if err != nil {
			slog.Error("could not read stored emissions", "error", err)
		} else {
			writeStoredEmissions(cmd.OutOrStdout(), reg, counts)
		}

		if violations := s.balance.Violations(); len(violations) > 0 {
			return fmt.Errorf("%w: %v", errUnbalanced, violations)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayStoragePath, "storage", "s", "./swapper.sqlite",
		"Session database to replay")
	replayCmd.Flags().BoolVar(&replayProgress, "progress", true,
		"Show a progress bar while replaying")
	replayCmd.Flags().BoolVar(&replayEmit, "emit", false,
		"Log every replayed emission")
}
