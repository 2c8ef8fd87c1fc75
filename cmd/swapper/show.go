package swapper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/filbar/swapper/db"
	"github.com/filbar/swapper/output"
	"github.com/filbar/swapper/web"
	"github.com/filbar/swapper/web/routes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	showStoragePath string
	showPort        int
	showDev         bool
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a stored session",
	Long:  `Replays a session recorded by the run command and serves the status page for its final state.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		slog.Debug("Config", "file", viper.ConfigFileUsed(), "settings", viper.AllSettings())

		reg, bindings, _, err := effectiveBindings()
		if err != nil {
			return err
		}

		storage, err := db.NewStorageFromPath(showStoragePath, verbose)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", showStoragePath, err)
		}
		defer storage.Close()

		s, err := replaySession(storage, bindings, output.Discard{}, false)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		handler := &routes.ServerHandler{Storage: storage, States: s.dispatcher, Balances: s.balance, Names: reg}

		return web.StartServer(ctx, showPort, handler, showDev)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVarP(&showPort, "port", "p", 9000,
		"Port on which server should be watching")
	showCmd.Flags().StringVarP(&showStoragePath, "storage", "s", "./swapper.sqlite",
		"Session database to show")
	showCmd.Flags().BoolVar(&showDev, "dev", false,
		"Enable developer mode")
}
