package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/peerpicks/peerpicks-api/config"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
)

// Seeds a local admin account so the admin panel is reachable on a fresh
// database.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@peerpicks.local"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, full_name, gender, dob, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6, 'admin')
		ON CONFLICT (email) DO UPDATE SET updated_at = now()
		RETURNING id
	`, email, hash, "PeerPicks Admin", "male", "1990-01-01", "0000000000").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)
}
