package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
	"github.com/carlfalc/glutenworld-sub001/pkg/pgstore"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
)

func newRoleCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Inspect and assign user roles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <user-id>",
		Short: "Print the role of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			pool, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer pool.Close()

			r, err := pgstore.NewRoleStore(pool).Role(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), r)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <user-id> <standard|owner>",
		Short:     "Assign a role",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(role.Standard), string(role.Owner)},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			r := role.Parse(args[1])
			if !strings.EqualFold(string(r), args[1]) {
				return fmt.Errorf("unknown role %q", args[1])
			}
			pool, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := pgstore.NewRoleStore(pool).SetRole(cmd.Context(), id, r); err != nil {
				return err
			}
			g.log.InfoContext(cmd.Context(), "role assigned", logger.IdentityID(id), logger.Role(string(r)))
			return nil
		},
	})
	return cmd
}
