package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/versand/internal/directory"
	"github.com/kingrea/versand/internal/envelope"
	"github.com/kingrea/versand/internal/pipeline"
	"github.com/kingrea/versand/internal/tui"
)

type runFlags struct {
	noMerge  bool
	noBadges bool
	noGroups bool
	noNames  bool
	review   bool
	output   string
}

func newRunCmd(a *app) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download the members and print the envelopes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), flags)
		},
	}
	cmd.Flags().BoolVar(&flags.noMerge, "no-merge", false, "Print one envelope per person")
	cmd.Flags().BoolVar(&flags.noBadges, "no-badges", false, "Leave out the role badges on the left edge")
	cmd.Flags().BoolVar(&flags.noGroups, "no-groups", false, "Leave out the group line")
	cmd.Flags().BoolVar(&flags.noNames, "no-names", false, "Leave out the occupant names")
	cmd.Flags().BoolVar(&flags.review, "review", false, "Show the envelopes and ask before printing")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output PDF (default from config)")
	return cmd
}

func (a *app) run(ctx context.Context, flags runFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	printing := &cfg.Settings.Print
	if flags.noMerge {
		printing.MergeHouseholds = false
	}
	if flags.noBadges {
		printing.SideBadges = false
	}
	if flags.noGroups {
		printing.Groups = false
	}
	if flags.noNames {
		printing.Names = false
	}
	if flags.output != "" {
		cfg.Settings.Files.Output = flags.output
	}

	rep, err := a.startLogging(cfg)
	if err != nil {
		return err
	}
	src, err := directory.New(cfg.Settings.Directory, a.logger.Logger)
	if err != nil {
		return err
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	deps := pipeline.Deps{
		Config:   cfg,
		Source:   src,
		Reporter: rep,
		Logger:   a.logger.Logger,
	}
	if flags.review {
		deps.Review = func(ctx context.Context, envelopes []envelope.Envelope) (bool, error) {
			return tui.Review(ctx, envelopes, a.in, a.out)
		}
	}
	if _, err := pipeline.Run(ctx, deps); err != nil {
		a.logger.Error("run failed", zap.Error(err))
		return err
	}
	return nil
}
