// SPDX-License-Identifier: Apache-2.0

// Package commands implements the modelkeep CLI.
package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/modelkeep/modelkeep/internal/config"
	"github.com/modelkeep/modelkeep/internal/crypto"
	"github.com/modelkeep/modelkeep/internal/identity"
	"github.com/modelkeep/modelkeep/internal/logger"
	"github.com/modelkeep/modelkeep/internal/service"
	"github.com/modelkeep/modelkeep/internal/store"
)

// App carries the wired application state shared by all commands. It is
// populated by the root command's PersistentPreRunE, so subcommands can
// assume a ready credential service.
type App struct {
	Cfg         *config.StructuredConfig
	Log         *logger.Logger
	Credentials service.CredentialService

	keychain crypto.KeyChain
}

// NewRootCommand builds the modelkeep command tree.
func NewRootCommand(version string) *cobra.Command {
	app := &App{}
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "modelkeep",
		Short: "Store and manage API keys for AI providers",
		Long: `modelkeep keeps per-provider and per-model API keys encrypted at rest,
tracks their rotation age, and records per-process usage statistics.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.bootstrap(cmd, debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.keychain != nil {
				app.keychain.Destroy()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		NewSetCommand(app),
		NewGetCommand(app),
		NewDeleteCommand(app),
		NewRotationCommand(app),
		NewAuditCommand(app),
	)

	return rootCmd
}

// bootstrap loads configuration and wires the store backend, keychain, and
// credential service.
func (app *App) bootstrap(cmd *cobra.Command, debug bool) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.Cfg = cfg

	level := parseLevel(cfg.Log.Level)
	if debug {
		level = zerolog.DebugLevel
	}
	app.Log = logger.NewLogger("cli", level)

	secrets, err := newSecretStore(cfg)
	if err != nil {
		return fmt.Errorf("open secret store: %w", err)
	}

	installID, err := identity.LoadOrCreate(cfg.Identity.Path)
	if err != nil {
		return fmt.Errorf("load installation identity: %w", err)
	}

	keychain := crypto.NewKeyChain(secrets, installID)
	if err = keychain.DeriveKey(cmd.Context()); err != nil {
		return fmt.Errorf("derive encryption key: %w", err)
	}
	app.keychain = keychain

	app.Credentials = service.NewCredentialService(secrets, keychain, app.Log)
	return nil
}

func newSecretStore(cfg *config.StructuredConfig) (store.SecretStore, error) {
	switch cfg.Store.Backend {
	case config.BackendKeyring:
		return store.NewKeyringStore(cfg.Store.KeyringService), nil
	default:
		return store.NewFileStore(cfg.Store.Path)
	}
}

func parseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
