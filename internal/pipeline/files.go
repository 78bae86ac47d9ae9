package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kingrea/versand/internal/config"
	"github.com/kingrea/versand/internal/injection"
	"github.com/kingrea/versand/internal/notify"
)

// CleanOptions select what Clean removes.
type CleanOptions struct {
	// ForReal deletes files; otherwise Clean only reports what it would do.
	ForReal bool
	// All also removes the config file.
	All bool
}

// Clean resets the operator files. The injection file is replaced by a fresh
// template, the mapping file is removed and, with All, so is the config.
func Clean(cfg *config.Config, opts CleanOptions, rep notify.Reporter) error {
	if cfg == nil {
		return errors.New("pipeline: config is required")
	}
	rep = notify.OrNop(rep)
	if !opts.ForReal {
		rep.Info("Dry run, pass --for-real to delete files.")
	}

	injectionPath := cfg.InjectionPath()
	if opts.ForReal {
		if err := injection.WriteTemplate(injectionPath); err != nil {
			return fmt.Errorf("pipeline: reset injection file: %w", err)
		}
		rep.Info("Reset " + injectionPath)
	} else {
		rep.Info("Would reset " + injectionPath)
	}

	targets := []string{cfg.MappingPath()}
	if opts.All {
		targets = append(targets, cfg.Path)
	}
	for _, path := range targets {
		if !opts.ForReal {
			rep.Info("Would remove " + path)
			continue
		}
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("pipeline: remove %s: %w", path, err)
		}
		rep.Info("Removed " + path)
	}
	return nil
}

// FileStatus describes one operator file.
type FileStatus struct {
	Path    string
	Exists  bool
	Size    int64
	ModTime time.Time
}

// Info reports the state of the files an operator edits.
func Info(cfg *config.Config) ([]FileStatus, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is required")
	}
	paths := cfg.UserRelevantFiles()
	out := make([]FileStatus, 0, len(paths))
	for _, path := range paths {
		status := FileStatus{Path: path}
		info, err := os.Stat(path)
		switch {
		case err == nil:
			status.Exists = true
			status.Size = info.Size()
			status.ModTime = info.ModTime()
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("pipeline: stat %s: %w", path, err)
		}
		out = append(out, status)
	}
	return out, nil
}
