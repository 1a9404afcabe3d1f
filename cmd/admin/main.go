package main

import (
	"encoding/json"
	"fmt"
	"os"

	"salonbook/config"
	"salonbook/internal/app"
	"salonbook/internal/entity"
	"salonbook/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var container *app.App

	root := &cobra.Command{
		Use:           "salonbook-admin",
		Short:         "Operator commands for the salon booking backend",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// The schema is applied explicitly by the migrate command.
			cfg.Database.AutoMigrate = false
			logger := config.NewLogger(cfg.Log)
			container, err = app.New(cfg, logger)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if container == nil {
				return nil
			}
			return container.Close()
		},
	}

	appFn := func() *app.App { return container }
	root.AddCommand(
		newMigrateCommand(appFn),
		newCreateAdminCommand(appFn),
		newResetAdminPasswordCommand(appFn),
		newCleanupCommand(appFn),
		newStatsCommand(appFn),
	)
	return root
}

func newMigrateCommand(container func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := container().Migrate(); err != nil {
				return err
			}
			container().Logger.Info("schema up to date")
			return nil
		},
	}
}

func newCreateAdminCommand(container func() *app.App) *cobra.Command {
	var input service.CreateAdminInput
	var role string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input.Role = entity.AdminRole(role)
			if input.Password == "" {
				input.Password = os.Getenv("ADMIN_PASSWORD")
			}
			admin, err := container().Auth.CreateAdmin(cmd.Context(), input)
			if err != nil {
				return err
			}
			container().Logger.WithFields(logrus.Fields{
				"admin_id": admin.ID,
				"username": admin.Username,
				"role":     admin.Role,
			}).Info("admin created")
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Username, "username", "", "admin username")
	cmd.Flags().StringVar(&input.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&input.Password, "password", "", "admin password, defaults to $ADMIN_PASSWORD")
	cmd.Flags().StringVar(&role, "role", string(entity.AdminRoleAdmin), "admin or super-admin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetAdminPasswordCommand(container func() *app.App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-admin-password <username>",
		Short: "Set a new password for an admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if err := container().Auth.SetAdminPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			container().Logger.WithField("username", args[0]).Info("admin password updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password, defaults to $ADMIN_PASSWORD")
	return cmd
}

func newCleanupCommand(container func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Expire stale reset credentials and purge old records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := container().Resets.Cleanup(cmd.Context())
			container().Logger.WithFields(logrus.Fields{
				"expired":             result.Expired,
				"purged":              result.Purged,
				"rate_limits_removed": result.RateLimitsRemoved,
			}).Info("cleanup finished")
			return err
		},
	}
}

func newStatsCommand(container func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print password reset record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := container().Resets.Stats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(stats); err != nil {
				return fmt.Errorf("encode stats: %w", err)
			}
			return nil
		},
	}
}
