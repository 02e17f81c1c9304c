// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSetCommand stores (or rotates) a credential.
func NewSetCommand(app *App) *cobra.Command {
	var (
		key        string
		rotateDays int
	)

	cmd := &cobra.Command{
		Use:   "set <provider> [model]",
		Short: "Store an API key for a provider or a specific model",
		Long: `Store an API key, encrypted at rest, for a provider or for one model of
that provider. Re-running set on an existing key counts as a rotation.

Examples:
  # Store a provider-wide key, prompted on stdin
  modelkeep set anthropic

  # Store a model-scoped key with a 90-day rotation policy
  modelkeep set openai gpt-4o --rotate-days 90`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := identifierFromArgs(args)

			secret, err := readSecret(key)
			if err != nil {
				return err
			}

			if err = app.Credentials.StoreKey(cmd.Context(), id, secret); err != nil {
				return err
			}

			days := rotateDays
			if days == 0 {
				days = app.Cfg.Rotation.DefaultMaxAgeDays
			}
			if days > 0 {
				if err = app.Credentials.SetRotationPolicy(cmd.Context(), id, days); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored key for %s\n", id.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "API key value (omit to be prompted on stdin)")
	cmd.Flags().IntVar(&rotateDays, "rotate-days", 0, "Auto-rotate policy in days (0 uses the configured default)")

	return cmd
}
