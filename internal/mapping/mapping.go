// Package mapping keeps the operator-editable table from group id to the name
// printed on envelopes. The table survives between runs: entries the operator
// edited are never overwritten, and new groups are added with a computed
// default.
package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/versand/internal/roster"
)

const (
	departmentSuffix      = " Pfäffikon-Fehraltorf-Hittnau-Russikon"
	governingCircleMember = "Trägerkreis Mitglieder"
	governingCircle       = "Trägerkreis"
)

// ErrParse marks a mapping document that could not be decoded. Callers treat
// it as recoverable and start over from an empty table.
var ErrParse = errors.New("mapping: parse")

// GroupNames is one row of the table.
type GroupNames struct {
	OriginalName string  `yaml:"original_name"`
	DisplayName  *string `yaml:"display_name"`
}

// GroupMapping maps group ids to their names.
type GroupMapping struct {
	Map map[string]GroupNames `yaml:"map"`
}

// New returns an empty table.
func New() *GroupMapping {
	return &GroupMapping{Map: map[string]GroupNames{}}
}

// Load decodes a table written by Save or edited by hand. An empty document is
// an empty table.
func Load(data []byte) (*GroupMapping, error) {
	m := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if m.Map == nil {
		m.Map = map[string]GroupNames{}
	}
	return m, nil
}

// Save encodes the table. Keys are written in sorted order.
func Save(m *GroupMapping) ([]byte, error) {
	if m == nil {
		m = New()
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("mapping: encode: %w", err)
	}
	return data, nil
}

// FromObservedGroups builds a fresh table from the groups seen in the current
// directory data, with autocorrected display names.
func FromObservedGroups(groups []roster.GroupMembership) *GroupMapping {
	m := New()
	for _, group := range groups {
		display := AutocorrectGroupName(group.Name)
		m.Map[group.ID] = GroupNames{
			OriginalName: group.Name,
			DisplayName:  &display,
		}
	}
	return m
}

// AutocorrectGroupName derives the default display name: gender suffixes and
// the department name are dropped, and the governing circle member group is
// shortened to the circle itself.
func AutocorrectGroupName(name string) string {
	result := strings.TrimSpace(name)
	result = trimAllSuffix(result, " (F)")
	result = trimAllSuffix(result, " (M)")
	result = trimAllSuffix(result, departmentSuffix)
	result = strings.TrimSpace(result)
	if result == governingCircleMember {
		result = governingCircle
	}
	return result
}

func trimAllSuffix(s, suffix string) string {
	for strings.HasSuffix(s, suffix) {
		s = strings.TrimSuffix(s, suffix)
	}
	return s
}

// Merge returns a new table holding every entry of priority plus the entries
// of fallback whose ids priority lacks. Neither input is modified.
func Merge(priority, fallback *GroupMapping) *GroupMapping {
	merged := New()
	if fallback != nil {
		for id, names := range fallback.Map {
			merged.Map[id] = names.clone()
		}
	}
	if priority != nil {
		for id, names := range priority.Map {
			merged.Map[id] = names.clone()
		}
	}
	return merged
}

// Get returns the row for id.
func (m *GroupMapping) Get(id string) (GroupNames, bool) {
	if m == nil {
		return GroupNames{}, false
	}
	names, ok := m.Map[id]
	return names, ok
}

// DisplayName returns the name to print for id. A row without a display name
// falls back to the original name; ok is false only for unknown ids.
func (m *GroupMapping) DisplayName(id string) (string, bool) {
	names, ok := m.Get(id)
	if !ok {
		return "", false
	}
	if names.DisplayName == nil {
		return names.OriginalName, true
	}
	return *names.DisplayName, true
}

// Len returns the number of rows.
func (m *GroupMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Map)
}

func (g GroupNames) clone() GroupNames {
	if g.DisplayName == nil {
		return g
	}
	display := *g.DisplayName
	g.DisplayName = &display
	return g
}
