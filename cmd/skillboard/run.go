package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/skillboard/pkg/logger"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Collect skills once and publish the results",
		Args:  cobra.NoArgs,
		RunE:  runCollectCmd,
	}
}

func runCollectCmd(cmd *cobra.Command, _ []string) error {
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
	rep, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	log.Info(ctx, "run complete",
		logger.String("run_id", rep.RunID),
		logger.Int("records", len(rep.Records)),
		logger.Int("skipped", rep.Skipped),
		logger.Int("failed", rep.Failed))
	return nil
}
