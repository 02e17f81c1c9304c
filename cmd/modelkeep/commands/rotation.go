// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRotationCommand shows or changes a credential's rotation policy.
func NewRotationCommand(app *App) *cobra.Command {
	var setDays int

	cmd := &cobra.Command{
		Use:   "rotation <provider> [model]",
		Short: "Show the rotation record for an API key, or set its policy with --set-days",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := identifierFromArgs(args)
			ctx := cmd.Context()

			if cmd.Flags().Changed("set-days") {
				if err := app.Credentials.SetRotationPolicy(ctx, id, setDays); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rotation policy for %s set to %d days\n", id.String(), setDays)
				return nil
			}

			record, ok, err := app.Credentials.GetRotation(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no rotation record for %s", id.String())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Last rotated: %s\n", record.LastRotated.Format("2006-01-02 15:04:05 MST"))
			if record.AutoRotateAfterDays <= 0 {
				fmt.Fprintln(out, "Policy:       none")
				return nil
			}
			fmt.Fprintf(out, "Policy:       rotate every %d days\n", record.AutoRotateAfterDays)

			due, err := app.Credentials.CheckRotationNeeded(ctx, id)
			if err != nil {
				return err
			}
			if due {
				fmt.Fprintln(out, "Status:       rotation due")
			} else {
				fmt.Fprintln(out, "Status:       ok")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&setDays, "set-days", 0, "set the auto-rotate period in days (0 clears the policy)")

	return cmd
}
