// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAuditCommand prints the in-memory usage counters for a credential.
func NewAuditCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <provider> [model]",
		Short: "Show usage counters recorded for an API key in this process",
		Long: `Show usage counters recorded for an API key in this process.

Counters live in memory only and reset when the process exits. Entries
are keyed by a hash of the identifier; the key material itself is never
tracked.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := identifierFromArgs(args)

			entry, ok := app.Credentials.GetAudit(id)
			if !ok {
				return fmt.Errorf("no audit entry for %s", id.String())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Hashed ID:       %s\n", entry.HashedKeyID)
			fmt.Fprintf(out, "Last used:       %s\n", entry.LastUsed.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "Requests:        %d\n", entry.RequestCount)
			fmt.Fprintf(out, "Failed attempts: %d\n", entry.FailedAttempts)
			return nil
		},
	}
}
