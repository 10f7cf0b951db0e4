// Package cli implements nutrictl, the operator tool for the API database.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Opener returns a database handle and a function that releases it.
type Opener func(cfg *config.Config) (*gorm.DB, func(), error)

func openPostgres(cfg *config.Config) (*gorm.DB, func(), error) {
	if err := database.Connect(cfg); err != nil {
		return nil, nil, err
	}
	return database.DB, func() { _ = database.Close() }, nil
}

type app struct {
	open Opener
	cfg  *config.Config
}

// withDB loads config, opens the database and hands it to fn.
func (a *app) withDB(fn func(db *gorm.DB) error) error {
	if a.cfg == nil {
		a.cfg = config.Load()
	}
	db, release, err := a.open(a.cfg)
	if err != nil {
		return err
	}
	defer release()
	return fn(db)
}

// NewRootCmd builds the command tree. A nil open connects to Postgres using
// the environment configuration.
func NewRootCmd(open Opener) *cobra.Command {
	if open == nil {
		open = openPostgres
	}
	a := &app{open: open}

	var logLevel string
	root := &cobra.Command{
		Use:           "nutrictl",
		Short:         "nutrictl manages the NutriTrack database",
		Long:          "nutrictl runs migrations, seeds the food and exercise catalog and performs admin maintenance.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(cmd.ErrOrStderr(), logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newPromoteAdminCmd(a),
		newLogsCmd(a),
	)
	return root
}

func Execute() {
	if err := NewRootCmd(nil).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
