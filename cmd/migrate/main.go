package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"checkmate/internal/config"
	"checkmate/internal/database"
	"checkmate/internal/logging"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding *.sql migrations")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.MustNew("info", "json")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logging.Component(logging.MustNew(cfg.Log.Level, cfg.Log.Format), "migrate")

	// Connect to database
	db, err := database.Connect(cfg.Database, cfg.GetDSN(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Tables first, then the hand-written indexes that reference them
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list migration files")
	}
	sort.Strings(files)

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("failed to read migration file")
		}

		log.Info().Str("file", filepath.Base(file)).Msg("applying migration")
		if err := db.Exec(string(sqlBytes)).Error; err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("failed to apply migration")
		}
	}

	fmt.Printf("applied %d migration file(s)\n", len(files))
}
