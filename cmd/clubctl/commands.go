package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/padraicbc/yachtclub/config"
	"github.com/padraicbc/yachtclub/db"
	"github.com/padraicbc/yachtclub/identity"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "clubctl",
		Short:        "Maintenance commands for the yacht club API",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newHashPasswordCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create all tables and indexes for the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			bdb, err := db.Setup(cfg)
			if err != nil {
				return err
			}
			defer bdb.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := db.CreateTables(ctx, bdb); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tables ready (%s)\n", cfg.DBDriver)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH or COMMODORE_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			hash, err := identity.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "plain-text password (required)")
	return cmd
}
