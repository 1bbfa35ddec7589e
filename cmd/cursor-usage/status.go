package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cursortools/usage-agent/internal/config"
	agenterrors "github.com/cursortools/usage-agent/internal/errors"
	"github.com/cursortools/usage-agent/token"
	"github.com/cursortools/usage-agent/usage"
)

var teamFlag string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's and month-to-date usage spend",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&teamFlag, "team", "", "team id (overrides the one captured at login)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	logger := newLogger()
	repo := newCredentialRepo(cfg)

	cred, err := repo.Load()
	if err != nil {
		if agenterrors.Is(err, agenterrors.ErrCredentialNotFound) {
			return errors.New("no stored credential, run 'cursor-usage login' first")
		}
		return err
	}

	now := time.Now()
	if !token.IsValid(cred.Token, now.Unix()) {
		return errors.New("session expired or expiring within a day, run 'cursor-usage login' again")
	}

	teamID := cred.TeamID
	if teamFlag != "" {
		teamID = teamFlag
	}

	orchestrator := usage.NewOrchestrator(usage.NewClient(cfg, logger), logger)
	snapshot, err := orchestrator.Fetch(cmd.Context(), teamID, cred, now)
	if err != nil {
		return err
	}

	fmt.Printf("Account:        %s\n", snapshot.Email)
	fmt.Printf("Today:          %s\n", usage.FormatSpend(snapshot.TodayCents))
	fmt.Printf("Month to date:  %s\n", usage.FormatSpend(snapshot.MonthCents))
	if days, ok := snapshot.DaysUntilCycleEnd(now); ok {
		fmt.Printf("Cycle ends in:  %d day(s)\n", max(days, 0))
	}
	fmt.Printf("Session renews: %d day(s)\n", token.DaysRemaining(cred.Token, now.Unix()))
	return nil
}
