package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/adapters/persistence"
	"github.com/khoahotran/personal-card/internal/domain/user"
	"github.com/khoahotran/personal-card/pkg/auth"
)

var (
	ownerEmail string
	ownerName  string
)

// seedOwnerCmd creates an account or resets its password. The password comes from
// OWNER_PASSWORD so it never shows up in shell history.
var seedOwnerCmd = &cobra.Command{
	Use:   "seed-owner",
	Short: "Create or update an account that can sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerEmail == "" {
			ownerEmail = os.Getenv("OWNER_EMAIL")
		}
		password := os.Getenv("OWNER_PASSWORD")
		if ownerEmail == "" || password == "" {
			return errors.New("OWNER_EMAIL (or --email) and OWNER_PASSWORD are required")
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("cannot hash password: %w", err)
		}

		pool, err := persistence.NewPostgresPool(cfg, appLogger)
		if err != nil {
			return err
		}
		defer pool.Close()

		u := &user.User{Email: ownerEmail, PasswordHash: hash}
		if ownerName != "" {
			u.Name = &ownerName
		}
		if err := persistence.NewPostgresUserRepo(pool, appLogger).Upsert(cmd.Context(), u); err != nil {
			return fmt.Errorf("cannot add user: %w", err)
		}

		appLogger.Info("Owner added or updated", zap.String("email", u.Email), zap.String("user_id", u.ID.String()))
		return nil
	},
}

func init() {
	seedOwnerCmd.Flags().StringVar(&ownerEmail, "email", "", "account email (defaults to OWNER_EMAIL)")
	seedOwnerCmd.Flags().StringVar(&ownerName, "name", "", "display name")
}
