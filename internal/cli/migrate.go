package cli

import (
	"github.com/spf13/cobra"

	"github.com/carlfalc/glutenworld-sub001/pkg/pgstore"
)

func newMigrateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := pgstore.Migrate(cmd.Context(), pool, g.cfg.Postgres, g.log); err != nil {
				return err
			}
			g.log.InfoContext(cmd.Context(), "migrations applied")
			return nil
		},
	}
}
