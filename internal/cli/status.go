package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/carlfalc/glutenworld-sub001/pkg/pgstore"
	"github.com/carlfalc/glutenworld-sub001/pkg/subscription"
)

func newStatusCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Inspect and override commercial status",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <user-id>",
		Short: "Print the stored commercial status as JSON",
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

			st, err := pgstore.NewStatusStore(pool).Status(cmd.Context(), id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	})

	var (
		subscribed bool
		tier       string
		trialDays  int
	)
	set := &cobra.Command{
		Use:   "set <user-id>",
		Short: "Write a commercial status, e.g. to start a support trial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			st := subscription.Status{Subscribed: subscribed, Tier: tier}
			if trialDays > 0 {
				end := time.Now().UTC().Add(time.Duration(trialDays) * 24 * time.Hour)
				st.Trialing = true
				st.TrialExpiresAt = &end
			}

			pool, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer pool.Close()
			return pgstore.NewStatusStore(pool).SaveStatus(cmd.Context(), id, st)
		},
	}
	set.Flags().BoolVar(&subscribed, "subscribed", false, "mark as subscribed")
	set.Flags().StringVar(&tier, "tier", "", "subscription tier")
	set.Flags().IntVar(&trialDays, "trial-days", 0, "start a trial ending this many days from now")
	cmd.AddCommand(set)
	return cmd
}
