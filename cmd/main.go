package main

import (
	"log/slog"
	"os"

	"github.com/filbar/swapper/cmd/swapper"
	"github.com/filbar/swapper/logging"
)

func main() {
	// Replaced once flags are parsed; covers config loading.
	slog.SetDefault(logging.NewLogger(os.Stderr, false))

	swapper.Execute()
}
