package main

import (
	"errors"
	"fmt"
	"time"

	"checkmate/internal/services"

	"github.com/spf13/cobra"
)

type clock func() (time.Time, error)

func cycleCommand(e *env, now clock) *cobra.Command {
	var skipRecovery bool

	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Run one consensus pass and print its summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := now()
			if err != nil {
				return err
			}

			run := e.engine.Tick
			if skipRecovery {
				run = e.engine.RunCycle
			}

			summary, err := run(cmd.Context(), at)
			if perr := printJSON(cmd.OutOrStdout(), summary); perr != nil {
				return perr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&skipRecovery, "skip-recovery", false, "do not reopen stale claims first")
	return cmd
}

func recoverCommand(e *env, now clock) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Reopen submissions whose claim has gone stale",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := now()
			if err != nil {
				return err
			}

			summary, err := e.engine.Recover(cmd.Context(), at)
			if perr := printJSON(cmd.OutOrStdout(), summary); perr != nil {
				return perr
			}
			return err
		},
	}
}

func statsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print submission counts per status",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := e.repo.CountSubmissionsByStatus(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), counts)
		},
	}
}

func seedCommand(e *env, now clock) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo reviewers and submissions into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			at, err := now()
			if err != nil {
				return err
			}

			auth := services.NewAuthService(e.repo, e.log)
			seeded, err := services.NewSeedService(e.repo, auth, e.log).Seed(cmd.Context(), at, password)
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "database already has reviewers; nothing seeded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seeded demo reviewers and submissions")
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password for every seeded reviewer")
	return cmd
}
