// Package injection appends hand-maintained envelopes to the generated ones.
// Operators list people the directory does not know about in a YAML file next
// to the config; a missing file is recreated from a commented template.
package injection

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/versand/internal/envelope"
	"github.com/kingrea/versand/internal/notify"
)

// DefaultPath is the injection file name inside the working directory.
const DefaultPath = "inject_people.yaml"

// Template is written whenever the injection file is missing. Its only active
// content is an empty list, so a fresh template contributes nothing.
const Template = `---
# remove the following line (or comment it out):
[]
# and replace it with something like this:
# - receivers:
#     - nickname: Herbert
#       group: Herbert Fan Club
#       role: Teilnehmer
#   address:
#     - Herbert Herber
#     - Herbertstrasse h32
#     - 8332 Herbhausen
# - receivers:
#     - nickname: Zweibert
#       group: Herbert Fan Club
#       role: Leiter
#     - nickname: Drittbert
#       group: Herbert Fan Club
#       role: Teilnehmer
#   address:
#     - Familie Herber
#     - Herbertstrasse h33
#     - 8332 Herbhausen

# Every entry becomes exactly one envelope, printed in group order together
# with the generated ones. Roles other than the known badges are printed as
# written.
# This file is regenerated if you delete it.
`

// Parse decodes and validates an injection document. An empty document holds
// no envelopes.
func Parse(data []byte) ([]envelope.Envelope, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var envelopes []envelope.Envelope
	if err := yaml.Unmarshal(data, &envelopes); err != nil {
		return nil, fmt.Errorf("injection: decode: %w", err)
	}
	for i, env := range envelopes {
		if err := validate(env); err != nil {
			return nil, fmt.Errorf("injection: entry %d: %w", i+1, err)
		}
	}
	return envelopes, nil
}

func validate(env envelope.Envelope) error {
	if len(env.Occupants) == 0 {
		return fmt.Errorf("at least one receiver is required")
	}
	if len(env.Address) != envelope.AddressLines {
		return fmt.Errorf("address needs %d lines, got %d", envelope.AddressLines, len(env.Address))
	}
	return nil
}

// Load reads the injection file at path. A missing file is reported through
// fs.ErrNotExist.
func Load(path string) ([]envelope.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("injection: read %s: %w", path, err)
	}
	envelopes, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("injection: %s: %w", path, err)
	}
	return envelopes, nil
}

// Inject returns envelopes followed by the entries of the injection file, which
// are kept verbatim. When the file does not exist it is created from Template
// and nothing is added. Read and parse failures are reported to rep and leave
// envelopes unchanged; a broken file never stops a run.
func Inject(path string, envelopes []envelope.Envelope, rep notify.Reporter) []envelope.Envelope {
	rep = notify.OrNop(rep)
	created, err := createTemplate(path)
	if err != nil {
		rep.InjectionFailed(path, err)
		return envelopes
	}
	if created {
		return envelopes
	}
	injected, err := Load(path)
	if err != nil {
		rep.InjectionFailed(path, err)
		return envelopes
	}
	return append(envelopes, injected...)
}

// WriteTemplate replaces whatever is at path with a fresh template.
func WriteTemplate(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("injection: remove %s: %w", path, err)
	}
	if _, err := createTemplate(path); err != nil {
		return err
	}
	return nil
}

// createTemplate writes Template to path unless a file already exists there.
// It reports whether it created the file.
func createTemplate(path string) (bool, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("injection: ensure dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("injection: create %s: %w", path, err)
	}
	if _, err := f.WriteString(Template); err != nil {
		f.Close()
		return true, fmt.Errorf("injection: write template %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return true, fmt.Errorf("injection: close %s: %w", path, err)
	}
	return true, nil
}
