package envelope

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RoleKind enumerates the roles an envelope knows how to badge. Custom marks a
// free-text role whose label lives in Role.Text.
type RoleKind int

const (
	RoleNothing RoleKind = iota
	RoleParticipant
	RoleLeader
	RoleAlumnus
	RoleGoverningBody
	RoleCoach
	RoleTreasurer
	RoleHouseManager
	RoleAdmin
	RoleShop
	RoleActuary
	RoleMaterial
	RoleCustom
)

type roleLabels struct {
	canonical string
	singular  string
	plural    string
}

var kindLabels = map[RoleKind]roleLabels{
	RoleNothing:       {"Nothing", "", ""},
	RoleParticipant:   {"Teilnehmer", "Teilnehmer", "Teilnehmer"},
	RoleLeader:        {"Leiter", "Leiter", "Leiter"},
	RoleAlumnus:       {"Ehemalige", "Ehemaliger", "Ehemalige"},
	RoleGoverningBody: {"Traegerkreis", "Trägerkreis", "Trägerkreis"},
	RoleCoach:         {"Coach", "Coach", "Coaches"},
	RoleTreasurer:     {"Kassier", "Kassier", "Kassiere"},
	RoleHouseManager:  {"Hausverantwortlicher", "Hausverantwortliche/r", "Hausverantwortliche"},
	RoleAdmin:         {"Admin", "Admin", "Admins"},
	RoleShop:          {"Laedeli", "Lädeli", "Lädeli"},
	RoleActuary:       {"Aktuar", "Aktuar", "Aktuare"},
	RoleMaterial:      {"Matchef", "Matchef", "Matchefs"},
}

// Role is the single role shown for an occupant: one of the known kinds or a
// free-text label.
type Role struct {
	Kind RoleKind
	Text string
}

// Known returns the role of the given kind. Passing RoleCustom yields an
// empty custom role; use Custom for labelled ones.
func Known(kind RoleKind) Role {
	return Role{Kind: kind}
}

// Custom returns a free-text role.
func Custom(text string) Role {
	return Role{Kind: RoleCustom, Text: text}
}

// ParseRole maps a canonical label back to its kind. Any other text becomes a
// custom role carrying that text.
func ParseRole(s string) Role {
	trimmed := strings.TrimSpace(s)
	for kind, labels := range kindLabels {
		if strings.EqualFold(labels.canonical, trimmed) {
			return Known(kind)
		}
	}
	return Custom(trimmed)
}

// String returns the canonical label, or the text of a custom role.
func (r Role) String() string {
	if r.Kind == RoleCustom {
		return r.Text
	}
	if labels, ok := kindLabels[r.Kind]; ok {
		return labels.canonical
	}
	return fmt.Sprintf("RoleKind(%d)", int(r.Kind))
}

// Badge returns the side-badge label for n occupants holding this role.
func (r Role) Badge(n int) string {
	if r.Kind == RoleCustom {
		return r.Text
	}
	labels := kindLabels[r.Kind]
	if n == 1 {
		return labels.singular
	}
	return labels.plural
}

// MarshalYAML writes the role as a plain scalar.
func (r Role) MarshalYAML() (any, error) {
	return r.String(), nil
}

// UnmarshalYAML reads a plain scalar written by MarshalYAML or by hand.
func (r *Role) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("envelope: role must be a string, got %s", describeNode(node))
	}
	*r = ParseRole(node.Value)
	return nil
}

func describeNode(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	default:
		return fmt.Sprintf("node kind %d", node.Kind)
	}
}
