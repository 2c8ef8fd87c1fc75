package swapper

import (
	"fmt"
	"os"

	"github.com/filbar/swapper/db"
	"github.com/spf13/cobra"
)

var (
	mergeFilenames   []string
	mergeStoragePath string
)

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge session databases into one",
	Long:  `Given several session files, create a new one holding all of their events and emissions.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if _, err := os.Stat(mergeStoragePath); err == nil {
			return fmt.Errorf("output file %s already exists", mergeStoragePath)
		}

		inputs := make([]*db.SQLiteStorage, 0, len(mergeFilenames))

		defer func() {
			for _, in := range inputs {
				in.Close()
			}
		}()

		for _, fn := range mergeFilenames {
			store, err := db.NewStorageFromPath(fn, false)
			if err != nil {
				return err
			}

			inputs = append(inputs, store)
		}

		output, err := db.NewStorageFromPath(mergeStoragePath, false)
		if err != nil {
			return err
		}
		defer output.Close()

		return db.Merge(inputs, output)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceVarP(&mergeFilenames, "file", "f", []string{},
		"List of session files to merge")
	mergeCmd.Flags().StringVarP(&mergeStoragePath, "out", "o", "./merged.sqlite",
		"Output path for the merged session")
}
