package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/efine-sl/efine-api/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func newBootstrapAdminCmd() *cobra.Command {
	var (
		email    string
		name     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create the first super admin",
		Long:  "Creates a super_admin with two-factor disabled. Does nothing when an admin with the email already exists.",
		Example: `  efine-api bootstrap-admin --email root@efine.lk --name "System Admin"
  efine-api bootstrap-admin --email root@efine.lk --name "System Admin" --password secret1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrapAdmin(cmd.Context(), email, name, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "Admin display name (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(pw) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	return string(pw), nil
}

func runBootstrapAdmin(ctx context.Context, email, name, password string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}

	if password == "" {
		var err error
		if password, err = promptPassword(); err != nil {
			return err
		}
	}

	cfg, flush, err := loadRuntime()
	if err != nil {
		return err
	}
	defer flush()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	admin, created, err := businessflow.EnsureSuperAdmin(ctx, repository.NewAdminRepository(db), name, email, password, cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	if !created {
		fmt.Printf("Admin %q already exists (role %s); nothing to do\n", admin.Email, admin.Role)
		return nil
	}

	zap.L().Info("super admin bootstrapped", zap.String("admin_id", admin.UUID.String()))
	fmt.Printf("Created super admin %q\n", admin.Email)
	fmt.Println("  Sign in and enable two-factor authentication from the admin panel.")
	return nil
}
