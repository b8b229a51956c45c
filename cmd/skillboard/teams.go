package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/skillboard/pkg/logger"
)

func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Fetch the team directory and publish it",
		Args:  cobra.NoArgs,
		RunE:  runTeamsCmd,
	}
}

func runTeamsCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	out, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	svc := newService(cfg, log, newFetcher(cfg), out.publisher)
	teams, err := svc.PublishTeams(ctx)
	if err != nil {
		return err
	}

	log.Info(ctx, "team directory published",
		logger.Int("teams", len(teams)),
		logger.String("document", cfg.TeamsName))
	return nil
}
