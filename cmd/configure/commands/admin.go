package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ryzerecruiting/api/internal/config"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/spf13/cobra"
)

// NewAdminCmd creates the admin command with promote and demote subcommands.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
		Long:  "Grant or revoke the admin flag on an account by email.",
	}
	cmd.AddCommand(newAdminSetCmd("promote", "Grant admin access to an account", true))
	cmd.AddCommand(newAdminSetCmd("demote", "Revoke admin access from an account", false))
	return cmd
}

func newAdminSetCmd(use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" {
				return fmt.Errorf("email is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() { _ = db.Close() }()
			repo := database.NewUserRepository(db)
			if err := repo.SetAdmin(context.Background(), email, isAdmin); err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return fmt.Errorf("no account with email %s", email)
				}
				return fmt.Errorf("update account: %w", err)
			}
			if isAdmin {
				fmt.Printf("%s is now an admin.\n", email)
			} else {
				fmt.Printf("%s is no longer an admin.\n", email)
			}
			return nil
		},
	}
}
