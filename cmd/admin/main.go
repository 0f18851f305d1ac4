package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/term"

	"coachtrack/internal/auth"
	"coachtrack/internal/config"
	"coachtrack/internal/store"
)

// Operator tool. Staff accounts are provisioned here; there is no
// self-service signup endpoint.
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "migrate":
		if err := db.ApplyMigrations(cfg.MigrationsDir); err != nil {
			log.Fatalf("migrate failed: %v", err)
		}
		log.Println("migrations applied")
	case "adduser":
		if err := addUser(db, os.Args[2:]); err != nil {
			log.Fatalf("adduser failed: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func addUser(db *store.DB, args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ExitOnError)
	email := fs.String("email", "", "account email (required)")
	name := fs.String("name", "", "full name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("-email is required")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return fmt.Errorf("password must not be empty")
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return err
	}

	repo := auth.NewRepository(db.Client)
	user := &auth.User{Email: *email, FullName: *name, PasswordHash: hash}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		return err
	}
	log.Printf("created user %s (%s)", user.Email, user.ID)
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <migrate|adduser> [flags]")
	fmt.Fprintln(os.Stderr, "  migrate              apply migrations/*.sql")
	fmt.Fprintln(os.Stderr, "  adduser -email E [-name N]   create a staff account")
}
