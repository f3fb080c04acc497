// Command migrate applies one raw SQL file to the PostgreSQL database named
// by the DB_* environment variables. It bypasses GORM so it can be run
// against a database the service has never touched.
//
//	go run ./scripts/migrate.go migrations/001_submission_indexes.sql
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	file := "migrations/001_submission_indexes.sql"
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_NAME", "checkmate"))

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	migrationSQL, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	log.Printf("Applying %s...", file)
	if _, err := db.Exec(string(migrationSQL)); err != nil {
		log.Fatalf("Failed to execute migration: %v", err)
	}

	var open, processing int
	row := db.QueryRow(`SELECT
		COUNT(*) FILTER (WHERE status = 'open'),
		COUNT(*) FILTER (WHERE status = 'processing')
		FROM submissions`)
	if err := row.Scan(&open, &processing); err != nil {
		log.Fatalf("Failed to read queue size: %v", err)
	}

	log.Printf("Migration applied. Queue: %d open, %d processing", open, processing)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
