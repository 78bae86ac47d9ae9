package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kingrea/versand/internal/pipeline"
)

var (
	presentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func newCleanCmd(a *app) *cobra.Command {
	var opts pipeline.CleanOptions
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Reset the injection and mapping files",
		Long: `Resets the files versand generates for editing: the injection file is
replaced by a fresh template and the group mapping is removed. With --all the
config file is removed too.

Nothing is deleted without --for-real.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfigIfPresent()
			if err != nil {
				return err
			}
			rep, err := a.startLogging(cfg)
			if err != nil {
				return err
			}
			return pipeline.Clean(cfg, opts, rep)
		},
	}
	cmd.Flags().BoolVarP(&opts.ForReal, "for-real", "r", false, "Actually delete the files")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Also delete the config file")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "List the files an operator may edit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfigIfPresent()
			if err != nil {
				return err
			}
			files, err := pipeline.Info(cfg)
			if err != nil {
				return err
			}
			for _, file := range files {
				if file.Exists {
					fmt.Fprintf(a.out, "%s %s (%d bytes, %s)\n", presentStyle.Render("present"), file.Path, file.Size, file.ModTime.Format("2006-01-02 15:04"))
					continue
				}
				fmt.Fprintf(a.out, "%s %s\n", missingStyle.Render("missing"), file.Path)
			}
			return nil
		},
	}
}
