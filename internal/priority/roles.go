package priority

import "github.com/kingrea/versand/internal/envelope"

// roleCategories maps the directory's role categories onto badge roles.
// Trägerkreis is a group rather than a role; members get that badge through
// their group (see household).
var roleCategories = map[string]envelope.RoleKind{
	"Teilnehmer/-in":                envelope.RoleParticipant,
	"Traegerkreis":                  envelope.RoleGoverningBody,
	"Minigruppenleiter/-in":         envelope.RoleLeader,
	"Gruppenleiter/-in":             envelope.RoleLeader,
	"Coach":                         envelope.RoleCoach,
	"Abteilungsleiter/-in":          envelope.RoleLeader,
	"Adressverwalter/-in":           envelope.RoleNothing,
	"Adressverantwortlicher":        envelope.RoleNothing,
	"Chorsänger/-in":                envelope.RoleNothing,
	"Fröschlihauptleiter/-in":       envelope.RoleLeader,
	"Kassier":                       envelope.RoleTreasurer,
	"Freie/-r Mitarbeiter/-in":      envelope.RoleNothing,
	"Hausverantwortliche/-r":        envelope.RoleHouseManager,
	"Administrator/-in Cevi DB":     envelope.RoleAdmin,
	"Externe/-r":                    envelope.RoleNothing,
	"Lädeliverantwortliche/-r":      envelope.RoleShop,
	"Mitglied":                      envelope.RoleNothing,
	"Stufenleiter/-in":              envelope.RoleLeader,
	"Fröschlileiter/-in":            envelope.RoleLeader,
	"Aktuar/-in":                    envelope.RoleActuary,
	"Materialverantwortliche/-r":    envelope.RoleMaterial,
	"Verantwortliche/-r":            envelope.RoleNothing,
}

// TranslateRole maps a directory role category onto a badge role. Categories
// missing from the table become RoleNothing and report ok == false so the
// caller can tell the operator a new category showed up.
func TranslateRole(category string) (envelope.Role, bool) {
	kind, ok := roleCategories[category]
	if !ok {
		return envelope.Known(envelope.RoleNothing), false
	}
	return envelope.Known(kind), true
}
