package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the catalog schema and seed it for the current environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := bootstrap(ctx, st); err != nil {
			return err
		}
		logger.Info("migrate complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
