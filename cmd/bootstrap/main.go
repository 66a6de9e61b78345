// Command bootstrap creates the initial admin account. It connects with the
// server configuration, runs migrations if needed, and prompts for the
// password on the terminal.
package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/server/config"
	"github.com/dkazarov/uploadgate/internal/server/repositories/repomanager"
	"github.com/dkazarov/uploadgate/internal/server/services"
)

func main() {
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Administrator", "admin display name")
	random := flag.Bool("random", false, "generate a random password and print it")
	flag.Parse()

	if *email == "" {
		log.Fatal("usage: bootstrap -email admin@example.com [-name Name] [-random]")
	}

	var password string
	var err error
	if *random {
		password, err = common.MakeRandHexString(16)
		if err != nil {
			log.Fatalf("generate password: %v", err)
		}
		fmt.Printf("generated password: %s\n", password)
	} else {
		password, err = promptPassword()
		if err != nil {
			log.Fatalf("password prompt: %v", err)
		}
	}

	ctx := context.Background()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	users := services.NewUserService(db, rm)
	user, err := users.Create(ctx, *email, *name, password, []string{"user", "manager", "admin"})
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}

	fmt.Printf("admin %s created (id %s)\n", user.Email, user.ID)
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}

	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}

	if !bytes.Equal(first, second) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(first) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}

	return string(first), nil
}
