package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/user-registration/config"
	"github.com/oksasatya/user-registration/internal/domain/entity"
	"github.com/oksasatya/user-registration/internal/domain/repository"
	pginfra "github.com/oksasatya/user-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/user-registration/pkg/helpers"
	mailtpl "github.com/oksasatya/user-registration/pkg/mailer/templates"
)

// seed creates a pending demo account and prints the link that verifies it.
// With -operator it prints a bearer token for the user search route instead.
func main() {
	name := flag.String("name", "Demo User", "display name")
	email := flag.String("email", "demo@example.com", "email address")
	operator := flag.String("operator", "", "print an operator bearer token for this subject and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	if *operator != "" {
		token, exp, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTOperatorTTL, cfg.AppName).
			GenerateToken(*operator, helpers.RoleOperator)
		if err != nil {
			log.Fatalf("failed to issue operator token: %v", err)
		}
		fmt.Printf("operator token (expires %s):\n%s\n", exp.UTC().Format(time.RFC3339), token)
		return
	}

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	store := pginfra.NewStore(pool)

	var token string
	err = store.WithTx(ctx, func(tx repository.Tx) error {
		u, err := tx.Users().GetByEmailIgnoreCase(ctx, *email)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			u = &entity.User{Name: *name, Email: *email}
			if err := tx.Users().Create(ctx, u); err != nil {
				return err
			}
		case err != nil:
			return err
		case u.Enabled:
			return fmt.Errorf("user %s is already verified", u.Email)
		}

		c, err := tx.Confirmations().GetByUserID(ctx, u.ID)
		if errors.Is(err, repository.ErrNotFound) {
			c = entity.NewConfirmation(u)
			err = tx.Confirmations().Create(ctx, c)
		}
		if err != nil {
			return err
		}
		token = c.Token
		fmt.Printf("seeded user: id=%s email=%s name=%s\n", u.ID, u.Email, u.Name)
		return nil
	})
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("verify with: %s\n", mailtpl.VerificationURL(cfg.VerifyHost, token))
}
