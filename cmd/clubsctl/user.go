package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/morocclubs/clubs-api/internal/auth"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/services"
)

// NewUserCmd groups the account maintenance subcommands.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserSetPasswordCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var req dto.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user with a bcrypt-hashed password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := connect(cmd)
			if err != nil {
				return err
			}

			svc := services.NewAuthService(db, cfg, nil, auth.NewBcryptVerifier(cfg.BcryptCost), nil)
			user, err := svc.CreateUser(cmd.Context(), &req)
			if err != nil {
				if errors.Is(err, services.ErrEmailTaken) {
					return fmt.Errorf("%s: %w", req.Email, err)
				}
				return err
			}
			cmd.Printf("Created user %s (%s)\n", user.ID, user.Email)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Email, "email", "", "login email")
	flags.StringVar(&req.Password, "password", "", "initial password")
	flags.StringVar(&req.FirstName, "first-name", "", "first name")
	flags.StringVar(&req.LastName, "last-name", "", "last name")
	flags.StringVar(&req.Location, "location", "", "city or region")
	flags.BoolVar(&req.IsAdmin, "admin", false, "grant administrator rights")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserSetPasswordCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Replace a user's password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := connect(cmd)
			if err != nil {
				return err
			}

			svc := services.NewAuthService(db, cfg, nil, auth.NewBcryptVerifier(cfg.BcryptCost), nil)
			if err := svc.SetPassword(cmd.Context(), email, password); err != nil {
				return err
			}
			cmd.Printf("Password updated for %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
