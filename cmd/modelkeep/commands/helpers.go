// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/modelkeep/modelkeep/models"
)

// identifierFromArgs builds the key identifier from positional args:
// <provider> with an optional <model>.
func identifierFromArgs(args []string) models.KeyIdentifier {
	id := models.KeyIdentifier{Provider: strings.ToLower(args[0])}
	if len(args) > 1 {
		id.Model = args[1]
	}
	return id
}

// readSecret returns the secret from the --key flag when given, otherwise
// reads one line from stdin. Reading from stdin keeps the secret out of
// shell history and process listings.
func readSecret(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	fmt.Fprint(os.Stderr, "API key: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read secret from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
