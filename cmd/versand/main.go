// Command versand prints the member envelopes of a youth organization: it
// downloads the member list, merges people living together into households
// and renders one C5 page per envelope.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kingrea/versand/internal/config"
	"github.com/kingrea/versand/internal/logging"
	"github.com/kingrea/versand/internal/notify"
)

// app carries the global flags and the terminal streams shared by every
// subcommand.
type app struct {
	dir        string
	configPath string
	verbose    bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	console *notify.Console
	logger  *logging.Logger
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut, console: notify.NewConsole(out)}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "versand",
		Short: "Print household envelopes from the member directory",
		Long: `versand downloads the members of the configured groups, merges people
sharing an address into one household envelope and writes a PDF with one C5
page per envelope.

Run without a subcommand to do a full run. The first run writes a config.yaml
template into the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(a.dir)
			if err != nil {
				return fmt.Errorf("resolve working directory: %w", err)
			}
			a.dir = dir
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.dir, "dir", "C", ".", "Working directory holding config.yaml and the generated files")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: <dir>/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Echo debug logs to the terminal")

	run := newRunCmd(a)
	root.Flags().AddFlagSet(run.Flags())
	root.RunE = run.RunE

	root.AddCommand(run, newCleanCmd(a), newInfoCmd(a), newLoginCmd(a))
	return root
}

// loadConfig reads the config file. A missing file is replaced by a template,
// reported and returned as an error.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.dir, a.configPath)
	if err != nil {
		if errors.Is(err, config.ErrMissingConfig) {
			a.console.MissingConfigFile(config.New(a.dir, a.configPath).Path)
		}
		return nil, err
	}
	return cfg, nil
}

// loadConfigIfPresent reads the config file when one exists and falls back to
// the defaults otherwise, without writing a template.
func (a *app) loadConfigIfPresent() (*config.Config, error) {
	defaults := config.New(a.dir, a.configPath)
	if _, err := os.Stat(defaults.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults, nil
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}
	return config.Load(a.dir, a.configPath)
}

// startLogging opens the log file of cfg and returns a reporter that prints
// to the terminal and records to the log file.
func (a *app) startLogging(cfg *config.Config) (notify.Reporter, error) {
	logger, err := logging.NewWithConsole(cfg.LogsDir(), a.verbose, a.errOut)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	return notify.Multi{a.console, notify.NewLog(logger.File)}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	_ = a.logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
