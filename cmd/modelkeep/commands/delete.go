// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand removes a stored credential and its records.
func NewDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider> [model]",
		Short: "Delete a stored API key, its rotation record, and its audit entry",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := identifierFromArgs(args)

			if err := app.Credentials.DeleteKey(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted key for %s\n", id.String())
			return nil
		},
	}
}
