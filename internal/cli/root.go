// Package cli holds the accessd commands.
package cli

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/carlfalc/glutenworld-sub001/internal/config"
	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
)

type globals struct {
	envFiles []string
	cfg      config.Config
	log      *slog.Logger
}

// NewRootCmd builds the accessd command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "accessd",
		Short: "GlutenWorld access service: subscription gate, feature trial and billing links",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.envFiles...)
			if err != nil {
				return err
			}
			g.cfg = cfg
			g.log = logger.New(
				logger.WithEnvironment(cfg.App.Env, cfg.App.Service),
				logger.WithContextValue("request_id", middleware.RequestIDKey),
				logger.WithContextExtractors(identityExtractor),
			)
			logger.SetAsDefault(g.log)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&g.envFiles, "env-file", nil, "dotenv files to load (default ./.env when present)")

	root.AddCommand(
		newServeCmd(g),
		newMigrateCmd(g),
		newTokenCmd(g),
		newRoleCmd(g),
		newStatusCmd(g),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func identityExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := identity.IDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.IdentityID(id), true
}
