// Command adminctl creates pre-verified accounts directly against the
// database. It is the trusted registration path: the public API only ever
// creates unverified accounts.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/avpetrov/authcore/internal/flagx"
	"github.com/avpetrov/authcore/internal/logging"
	"github.com/avpetrov/authcore/internal/server/auth"
	"github.com/avpetrov/authcore/internal/server/config"
	"github.com/avpetrov/authcore/internal/server/migrations"
	"github.com/avpetrov/authcore/internal/server/repositories/users"
	"github.com/avpetrov/authcore/internal/server/services"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("adminctl: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var (
		dsn   string
		email string
	)
	fs := flag.NewFlagSet("adminctl", flag.ExitOnError)
	fs.StringVar(&dsn, "dsn", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&email, "email", "", "email of the account to create")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-dsn", "-email"}))

	if email == "" {
		return fmt.Errorf("missing required -email flag")
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("db migration error: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	repo := users.NewPostgresRepository(db)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	codec := auth.NewCodec(
		[]byte(cfg.JWTSecret), []byte(cfg.JWTRefreshSecret),
		cfg.JWTDuration, cfg.JWTRefreshDuration, logger)
	svc := services.NewAuthService(repo, hasher, codec, logger)

	if err := svc.Signup(ctx, services.SignupParams{
		Email:    email,
		Password: password,
		Verified: true,
	}); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	fmt.Printf("created verified account %s\n", email)
	return nil
}

// promptPassword reads the password twice without echo.
func promptPassword() (string, error) {
	fd := int(syscall.Stdin)

	fmt.Print("Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
