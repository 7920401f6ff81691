package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"quizzes-service/internal/app"
	"quizzes-service/internal/auth"
	"quizzes-service/internal/config"
	"quizzes-service/internal/logger"
)

// NewUserCmd groups account administration commands.
func NewUserCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserAddCmd(configPath), newUserDeactivateCmd(configPath))
	return cmd
}

func newUserAddCmd(configPath *string) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new active user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(cmd.Context(), *configPath, func(ctx context.Context, users *app.UserService) error {
				if password == "" {
					return fmt.Errorf("password required")
				}
				hashed, err := auth.HashPassword(password, bcrypt.DefaultCost)
				if err != nil {
					return err
				}
				user, err := users.Create(ctx, name, email, hashed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.UUID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "plain password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserDeactivateCmd(configPath *string) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Disable a user; their tokens stop working immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(cmd.Context(), *configPath, func(ctx context.Context, users *app.UserService) error {
				user, err := users.SetActive(ctx, email, false)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deactivated user %s\n", user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func withUsers(ctx context.Context, configPath string, fn func(context.Context, *app.UserService) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logger)
	defer log.Sync()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, app.NewUserService(store))
}
