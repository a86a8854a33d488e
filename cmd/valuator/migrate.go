package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pg "valuator/internal/adapters/postgres"
	"valuator/internal/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("%w: database.url is required", config.ErrInvalid)
			}

			db, err := pg.Connect(cmd.Context(), cfg.Database.URL, 1)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := db.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "database is up to date")
				return nil
			}
			for _, m := range applied {
				fmt.Fprintf(out, "applied %05d %s\n", m.Version, m.Source)
			}
			return nil
		},
	}
}
