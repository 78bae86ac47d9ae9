// Package pipeline drives one envelope run: fetch the roster, merge it into
// households, add injected envelopes and print the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/kingrea/versand/internal/config"
	"github.com/kingrea/versand/internal/directory"
	"github.com/kingrea/versand/internal/envelope"
	"github.com/kingrea/versand/internal/household"
	"github.com/kingrea/versand/internal/injection"
	"github.com/kingrea/versand/internal/mapping"
	"github.com/kingrea/versand/internal/notify"
	"github.com/kingrea/versand/internal/render"
)

// ReviewFunc is shown the final envelope list before printing. Returning
// false stops the run without writing the document.
type ReviewFunc func(ctx context.Context, envelopes []envelope.Envelope) (bool, error)

// Deps are the collaborators of a run.
type Deps struct {
	Config   *config.Config
	Source   directory.Source
	Reporter notify.Reporter
	Logger   *zap.Logger
	Review   ReviewFunc
}

// Result summarizes a run.
type Result struct {
	RunID     string
	People    int
	Merged    int
	Envelopes []envelope.Envelope
	Output    string
	Pages     int
	Aborted   bool
}

// Run executes the whole pipeline. Recoverable problems go to the reporter;
// the returned error is fatal.
func Run(ctx context.Context, deps Deps) (Result, error) {
	if deps.Config == nil {
		return Result{}, errors.New("pipeline: config is required")
	}
	if deps.Source == nil {
		return Result{}, errors.New("pipeline: directory source is required")
	}
	cfg := deps.Config
	rep := notify.OrNop(deps.Reporter)
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := Result{RunID: ulid.Make().String()}
	logger = logger.With(zap.String("run_id", res.RunID))
	logger.Info("run started", zap.String("workdir", cfg.WorkDir))

	ds, err := deps.Source.Fetch(ctx)
	if err != nil {
		return res, fmt.Errorf("pipeline: fetch: %w", err)
	}
	res.People = len(ds.People)
	rep.DownloadFinished(res.People)
	logger.Debug("roster fetched", zap.Int("people", res.People), zap.Int("groups", len(ds.Groups)))

	groups, err := mapping.NewStore(cfg.MappingPath()).Sync(ds.Groups, rep)
	if err != nil {
		return res, fmt.Errorf("pipeline: group mapping: %w", err)
	}

	printing := cfg.Settings.Print
	envelopes, err := household.Merge(ds.People, groups, household.Options{
		DisableMerge: !printing.MergeHouseholds,
		FamilyPrefix: printing.FamilyPrefix,
	}, rep)
	if err != nil {
		return res, fmt.Errorf("pipeline: merge: %w", err)
	}
	res.Merged = len(envelopes)
	rep.ParsingFinished(res.Merged)

	envelopes = injection.Inject(cfg.InjectionPath(), envelopes, rep)
	if injected := len(envelopes) - res.Merged; injected > 0 {
		logger.Info("injected envelopes", zap.Int("count", injected))
	}
	SortForPrinting(envelopes)
	res.Envelopes = envelopes

	if deps.Review != nil {
		ok, err := deps.Review(ctx, envelopes)
		if err != nil {
			return res, fmt.Errorf("pipeline: review: %w", err)
		}
		if !ok {
			res.Aborted = true
			logger.Info("run aborted during review")
			rep.Info("Printing aborted, nothing was written.")
			return res, nil
		}
	}

	res.Output = cfg.OutputPath()
	pages, err := writeDocument(res.Output, envelopes, render.Options{
		SideBadges: printing.SideBadges,
		Groups:     printing.Groups,
		Names:      printing.Names,
		Logo:       cfg.LogoPath(),
	})
	if err != nil {
		return res, err
	}
	res.Pages = pages
	rep.RenderFinished(res.Output, pages)
	logger.Info("run finished",
		zap.Int("people", res.People),
		zap.Int("envelopes", len(envelopes)),
		zap.Int("pages", pages),
		zap.String("output", res.Output),
	)
	return res, nil
}

// SortForPrinting orders envelopes by the group of their first occupant,
// keeping the household order within a group.
func SortForPrinting(envelopes []envelope.Envelope) {
	sort.SliceStable(envelopes, func(i, j int) bool {
		return envelopes[i].FirstGroup() < envelopes[j].FirstGroup()
	})
}

// writeDocument renders into a temporary file next to path and renames it into
// place. A failed render leaves any previous document untouched.
func writeDocument(path string, envelopes []envelope.Envelope, opts render.Options) (int, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("pipeline: ensure output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".versand-*.pdf")
	if err != nil {
		return 0, fmt.Errorf("pipeline: create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	pages, err := render.Render(tmp, envelopes, opts)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("pipeline: close output: %w", closeErr)
	}
	if err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("pipeline: move output to %s: %w", path, err)
	}
	return pages, nil
}
