package main

import (
	"errors"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/julifest/invites/internal/auth"
	"github.com/julifest/invites/internal/config"
	"github.com/julifest/invites/internal/database"
)

// dbinit creates the database schema and the first admin account so the
// dashboard is usable right after deployment.
func main() {
	username := flag.String("username", "admin", "initial admin username")
	email := flag.String("email", "admin@localhost", "initial admin email")
	password := flag.String("password", "admin123", "initial admin password")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Overload(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	user, err := db.CreateUser(database.UserParams{
		Username:     *username,
		Email:        *email,
		PasswordHash: hash,
		Role:         database.RoleAdmin,
		IsActive:     true,
	})
	if errors.Is(err, database.ErrDuplicateUser) {
		log.Info().Str("username", *username).Msg("admin user already exists, nothing to do")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create admin user")
	}

	log.Info().Str("username", user.Username).Str("role", user.Role).Msg("admin user created")
	if *password == "admin123" {
		log.Warn().Msg("default password in use, change it after first login")
	}
}
