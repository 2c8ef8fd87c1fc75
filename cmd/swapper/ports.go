package swapper

import (
	"fmt"

	"github.com/filbar/swapper/keylog/ports"
	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial devices that look like keyboard consoles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := ports.GetAvailableDevices()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no keyboard consoles found")

			return nil
		}

		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
