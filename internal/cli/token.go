package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
)

// newTokenCmd issues access tokens for local testing. Production tokens come
// from the auth service.
func newTokenCmd(g *globals) *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a development access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			parser, err := identity.NewParser(g.cfg.Auth.JWTSecret)
			if err != nil {
				return err
			}
			token, err := parser.Issue(identity.Identity{ID: id, Email: email}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
