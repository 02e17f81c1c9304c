// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// NewGetCommand retrieves a stored credential.
func NewGetCommand(app *App) *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "get <provider> [model]",
		Short: "Retrieve a stored API key",
		Long: `Retrieve and decrypt a stored API key. By default the raw value is
printed to stdout, making it suitable for scripting:

  export ANTHROPIC_API_KEY=$(modelkeep get anthropic)

With --copy the key goes to the system clipboard instead and nothing is
printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := identifierFromArgs(args)

			secret, err := app.Credentials.GetKey(cmd.Context(), id)
			if err != nil {
				return err
			}

			due, err := app.Credentials.CheckRotationNeeded(cmd.Context(), id)
			if err == nil && due {
				app.Log.Warn().Str("key", id.Masked()).Msg("rotation is overdue for this key")
			}

			if copyToClipboard {
				if err = clipboard.WriteAll(secret); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Copied key for %s to clipboard\n", id.String())
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the key to the clipboard instead of printing it")

	return cmd
}
