// Command seed creates the guest account used by the demo frontend. It is
// idempotent: an existing guest user is left untouched.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/haim/bookstore-api/internal/config"
	"github.com/haim/bookstore-api/internal/model"
	"github.com/haim/bookstore-api/internal/repository"
)

const (
	guestEmail    = "guest@gmail.com"
	guestName     = "Guest User"
	guestPassword = "12345678"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DB.DSN())
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		log.Error("apply schema", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(pool)

	existing, err := userRepo.GetByEmail(ctx, guestEmail)
	if err != nil {
		log.Error("check guest user", "error", err)
		os.Exit(1)
	}
	if existing != nil {
		log.Info("guest user already exists", "id", existing.ID)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(guestPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("hash password", "error", err)
		os.Exit(1)
	}

	user := &model.User{Email: guestEmail, Name: guestName, PasswordHash: string(hashed)}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Error("create guest user", "error", err)
		os.Exit(1)
	}
	log.Info("guest user created", "id", user.ID)
}
