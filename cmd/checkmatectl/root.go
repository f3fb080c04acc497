package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"checkmate/internal/config"
	"checkmate/internal/consensus"
	"checkmate/internal/database"
	"checkmate/internal/logging"
	"checkmate/internal/repository"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env is what every subcommand needs once PersistentPreRunE has run
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	repo   *repository.Repository
	engine *consensus.Engine
	close  func()
}

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	var (
		e       env
		atFlag  string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:          "checkmatectl",
		Short:        "Checkmate consensus operator CLI",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&atFlag, "at", "", "evaluate as of this RFC3339 time instead of now")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		log, err := logging.New(cmd.ErrOrStderr(), level, "console")
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database, cfg.GetDSN(), log)
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db, log); err != nil {
			return err
		}

		repo := repository.NewRepository(db)
		e = env{
			cfg:  cfg,
			log:  log,
			repo: repo,
			engine: consensus.NewEngine(repo, consensus.Config{
				ReviewWindow:     cfg.Consensus.ReviewWindow,
				ClaimGracePeriod: cfg.Consensus.ClaimGracePeriod,
				PageSize:         cfg.Consensus.PageSize,
			}, log),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if e.close != nil {
			e.close()
		}
	}

	now := func() (time.Time, error) {
		if atFlag == "" {
			return time.Now().UTC(), nil
		}
		t, err := time.Parse(time.RFC3339, atFlag)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --at value: %w", err)
		}
		return t.UTC(), nil
	}

	rootCmd.AddCommand(
		cycleCommand(&e, now),
		recoverCommand(&e, now),
		statsCommand(&e),
		seedCommand(&e, now),
	)

	return rootCmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
