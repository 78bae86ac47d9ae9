// Package household turns the flat member list into envelopes: one per
// household, with occupants named and badged.
//
// Two people share a household when their family-style addresses
// ("<prefix> <last name>", street, "<postal code> <town>") are equal after
// normalization. Nothing fuzzier is attempted: a misspelled surname yields a
// second envelope.
package household

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kingrea/versand/internal/envelope"
	"github.com/kingrea/versand/internal/normalize"
	"github.com/kingrea/versand/internal/notify"
	"github.com/kingrea/versand/internal/priority"
	"github.com/kingrea/versand/internal/roster"
)

// DefaultFamilyPrefix starts the name line of a merged household.
const DefaultFamilyPrefix = "Family"

// governingCircle in a display group forces the governing-body badge.
const governingCircle = "Trägerkreis"

var (
	// ErrNoPeople means the directory delivered nobody, which only happens
	// when the upstream data is broken.
	ErrNoPeople = errors.New("household: no people to merge")
	// ErrUnknownGroup means a person's group is missing from the display-name
	// table, so the directory response contradicts itself.
	ErrUnknownGroup = errors.New("household: group id not in mapping")
)

// Resolver looks up the printed name of a group; *mapping.GroupMapping
// satisfies it.
type Resolver interface {
	DisplayName(id string) (string, bool)
}

// Options tweak merging.
type Options struct {
	// DisableMerge gives every person their own envelope. Normalization and
	// ordering still happen.
	DisableMerge bool
	// FamilyPrefix replaces DefaultFamilyPrefix when set.
	FamilyPrefix string
}

func (o Options) familyPrefix() string {
	if p := strings.TrimSpace(o.FamilyPrefix); p != "" {
		return p
	}
	return DefaultFamilyPrefix
}

// Merge builds the envelopes for people, ordered by postal code, town and last
// name. The input slice is left untouched.
func Merge(people []roster.Person, groups Resolver, opts Options, rep notify.Reporter) ([]envelope.Envelope, error) {
	if len(people) == 0 {
		return nil, ErrNoPeople
	}
	rep = notify.OrNop(rep)

	sorted := make([]roster.Person, len(people))
	copy(sorted, people)
	for i := range sorted {
		sorted[i].Address = normalize.Address(sorted[i].Address)
		sorted[i].Town = normalize.Town(sorted[i].Town)
		if sorted[i].IncompleteAddress() {
			rep.IncompleteAddress(sorted[i])
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.PostalCode != b.PostalCode {
			return a.PostalCode < b.PostalCode
		}
		if a.Town != b.Town {
			return a.Town < b.Town
		}
		return a.LastName < b.LastName
	})

	prefix := opts.familyPrefix()
	envelopes := make([]envelope.Envelope, 0, len(sorted))
	var currentKey []string
	for i, person := range sorted {
		occupant, err := resolveOccupant(person, groups, rep)
		if err != nil {
			return nil, err
		}
		familyKey := familyAddress(person, prefix)
		if i > 0 && !opts.DisableMerge && sameAddress(familyKey, currentKey) {
			last := &envelopes[len(envelopes)-1]
			last.Occupants = append(last.Occupants, occupant)
			last.Address = familyKey
			continue
		}
		envelopes = append(envelopes, envelope.Envelope{
			Occupants: []envelope.Occupant{occupant},
			Address:   individualAddress(person),
		})
		currentKey = familyKey
	}

	for i := range envelopes {
		occupants := envelopes[i].Occupants
		sort.SliceStable(occupants, func(a, b int) bool {
			return occupants[a].Name < occupants[b].Name
		})
	}
	return envelopes, nil
}

func familyAddress(p roster.Person, prefix string) []string {
	return address(p, prefix)
}

func individualAddress(p roster.Person) []string {
	return address(p, p.FirstName)
}

func address(p roster.Person, first string) []string {
	return []string{
		first + " " + p.LastName,
		p.Address,
		p.PostalCode + " " + p.Town,
	}
}

func sameAddress(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DisplayName is the nickname when set, otherwise the first name.
func DisplayName(p roster.Person) string {
	if strings.TrimSpace(p.Nickname) == "" {
		return p.FirstName
	}
	return p.Nickname
}

func resolveOccupant(p roster.Person, groups Resolver, rep notify.Reporter) (envelope.Occupant, error) {
	name := DisplayName(p)

	roles := make([]envelope.Role, 0, len(p.Roles))
	for _, membership := range p.Roles {
		role, known := priority.TranslateRole(membership.Category)
		if !known {
			rep.UnknownRoleCategory(membership.Category)
		}
		roles = append(roles, role)
	}
	role := priority.BestRole(roles)

	var groupName string
	if best, ok := priority.BestGroup(p.Groups); ok {
		var display string
		found := false
		if groups != nil {
			display, found = groups.DisplayName(best.ID)
		}
		if !found {
			return envelope.Occupant{}, fmt.Errorf("%w: %s (%s) of %s %s", ErrUnknownGroup, best.ID, best.Name, p.FirstName, p.LastName)
		}
		groupName = display
	}

	if strings.Contains(groupName, governingCircle) {
		role = envelope.Known(envelope.RoleGoverningBody)
	}
	if role.Kind == envelope.RoleNothing {
		role = envelope.Custom(name)
	}
	return envelope.Occupant{Name: name, Group: groupName, Role: role}, nil
}
