// Package normalize canonicalizes the address and town spellings found in the
// member directory so that members of one household produce identical
// mailing addresses.
package normalize

import (
	"regexp"
	"strings"
)

var (
	streetAbbrev       = regexp.MustCompile(`str\.`)
	spacedStreetAbbrev = regexp.MustCompile(`\sstr.`)
	pfaeffikon         = regexp.MustCompile(`(?i)Pf(ae|ä)ffikon(\s?ZH)?`)
)

// Address trims the street line, joins it onto a single line and expands the
// "str." abbreviation. The second pass only fires where whitespace preceded
// the abbreviation and glues the expansion onto the previous word with a
// capital S ("Haupt str." keeps a capitalized Strasse).
func Address(s string) string {
	line := singleLine(s)
	line = streetAbbrev.ReplaceAllLiteralString(line, "strasse")
	return spacedStreetAbbrev.ReplaceAllLiteralString(line, "Strasse")
}

// Town trims the town line and rewrites every spelling of Pfäffikon
// (Pfaeffikon, pfäffikon ZH, ...) to "Pfäffikon ZH".
func Town(s string) string {
	line := singleLine(s)
	line = pfaeffikon.ReplaceAllLiteralString(line, "Pfäffikon ZH")
	return strings.TrimSpace(line)
}

func singleLine(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}
