package mapping

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kingrea/versand/internal/notify"
	"github.com/kingrea/versand/internal/roster"
)

// Store is the mapping file on disk. One process reads and rewrites it per
// run; concurrent runs race on the file.
type Store struct {
	Path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Read loads the file. A missing file yields an empty table and fs.ErrNotExist
// wrapped in the error; a parse failure wraps ErrParse. Any other error means
// the file could not be read at all.
func (s *Store) Read() (*GroupMapping, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), fmt.Errorf("mapping: read %s: %w", s.Path, err)
		}
		return nil, fmt.Errorf("mapping: read %s: %w", s.Path, err)
	}
	m, err := Load(data)
	if err != nil {
		return New(), fmt.Errorf("mapping: %s: %w", s.Path, err)
	}
	return m, nil
}

// Write replaces the file with m.
func (s *Store) Write(m *GroupMapping) error {
	data, err := Save(m)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mapping: ensure dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("mapping: write %s: %w", s.Path, err)
	}
	return nil
}

// Sync loads the saved table, registers every observed group it does not know
// yet and writes the result back. Saved rows win over observed ones, so
// operator edits survive. A missing or unparsable file is reported and
// replaced; an unreadable one aborts.
func (s *Store) Sync(observed []roster.GroupMembership, rep notify.Reporter) (*GroupMapping, error) {
	rep = notify.OrNop(rep)
	loaded, err := s.Read()
	if err != nil {
		if loaded == nil {
			return nil, err
		}
		rep.MappingReset(s.Path, err)
	}
	merged := Merge(loaded, FromObservedGroups(observed))
	if err := s.Write(merged); err != nil {
		return nil, err
	}
	return merged, nil
}
