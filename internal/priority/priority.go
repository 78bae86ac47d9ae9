// Package priority ranks roles and groups so that a single badge can be shown
// for a member who holds several. Higher priorities win.
package priority

import (
	"github.com/kingrea/versand/internal/envelope"
	"github.com/kingrea/versand/internal/roster"
)

// Priority orders candidates; the larger value wins.
type Priority int

// Ignored is the tier of roles that are never worth a badge.
const Ignored Priority = -100

const (
	externalCategory        = "Externe"
	externalDefault         = Priority(83)
	unknownCategoryPriority = Priority(0)
)

var rolePriorities = map[envelope.RoleKind]Priority{
	envelope.RoleGoverningBody: 50,
	envelope.RoleAlumnus:       45,
	envelope.RoleLeader:        40,
	envelope.RoleParticipant:   30,
	envelope.RoleNothing:       0,
}

// Groups nobody wants printed sit low; specific groups such as sub-groups sit
// high.
var groupPriorities = map[string]Priority{
	"Dachverband":            10,
	"Mitgliederorganisation": 30,
	"Sektion":                40,
	"Verein":                 45,
	"Jungschar":              49,
	"Gruppe":                 50,
	"Ortsgruppe":             60,
	"Stufe":                  70,
	"Mitglieder":             71,
	"Ten-Sing":               80,
	"Gremium":                81,
	"Vorstand":               90,
	"Untergruppe":            100,
	"Fröschli":               100,
}

var externalPriorities = map[string]Priority{
	"Trägerkreis Mitglieder":       89,
	"J+S-Coaches":                  88,
	"Leiter ehemalig":              87,
	"Ehemalige":                    87,
	"Gebetsbrunch":                 86,
	"C-Newsletter":                 85,
	"Freie Mitarbeiter":            84,
	"Z_Import Optigem":             1,
	"Admin GS 2019":                3,
	"EXT: Y-Card Aktiv und Gültig": 2,
}

// ForRole ranks a display role. Kinds outside the badge-worthy set, custom
// roles included, fall into the Ignored tier.
func ForRole(role envelope.Role) Priority {
	if role.Kind == envelope.RoleCustom {
		return Ignored
	}
	if p, ok := rolePriorities[role.Kind]; ok {
		return p
	}
	return Ignored
}

// ForGroup ranks a group by its category. External groups are ranked by name,
// and unknown categories rank 0.
func ForGroup(group roster.GroupMembership) Priority {
	if group.Category == externalCategory {
		if p, ok := externalPriorities[group.Name]; ok {
			return p
		}
		return externalDefault
	}
	if p, ok := groupPriorities[group.Category]; ok {
		return p
	}
	return unknownCategoryPriority
}

// BestRole returns the highest ranked role, or RoleNothing for an empty list.
// Among equal priorities the later role wins; the directory does not promise
// any particular membership order, so ties are not reproducible across
// sources.
func BestRole(roles []envelope.Role) envelope.Role {
	best := envelope.Known(envelope.RoleNothing)
	found := false
	var bestPriority Priority
	for _, role := range roles {
		p := ForRole(role)
		if !found || p >= bestPriority {
			best, bestPriority, found = role, p, true
		}
	}
	return best
}

// BestGroup returns the highest ranked group. Ties resolve like BestRole.
func BestGroup(groups []roster.GroupMembership) (roster.GroupMembership, bool) {
	var best roster.GroupMembership
	found := false
	var bestPriority Priority
	for _, group := range groups {
		p := ForGroup(group)
		if !found || p >= bestPriority {
			best, bestPriority, found = group, p, true
		}
	}
	return best, found
}
