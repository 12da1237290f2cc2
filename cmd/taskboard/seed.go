package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/storage/sqlite"
)

var seedDB string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the database contents with demo tasks and persons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore(seedDB)
		if err != nil {
			return err
		}
		defer store.Close()

		tasks, persons := sqlite.DemoTasks(), sqlite.DemoPersons()
		if err := store.Reset(cmd.Context(), tasks, persons); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d tasks and %d persons\n", len(tasks), len(persons))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDB, "db", "", "Path to sqlite database file (overrides database.path)")
	rootCmd.AddCommand(seedCmd)
}
