// Package envelope holds the printable mailing units produced by the household
// merger and the injection file, and consumed by the renderer.
package envelope

// AddressLines is the number of lines of a mailing address: name, street and
// postal code plus town.
const AddressLines = 3

// Occupant is one receiver of an envelope with its resolved badge data.
type Occupant struct {
	Name  string `yaml:"nickname"`
	Group string `yaml:"group"`
	Role  Role   `yaml:"role"`
}

// Envelope is one physical mailing unit.
type Envelope struct {
	Occupants []Occupant `yaml:"receivers"`
	Address   []string   `yaml:"address"`
}

// FirstGroup returns the group of the first occupant, the key envelopes are
// ordered by for printing.
func (e Envelope) FirstGroup() string {
	if len(e.Occupants) == 0 {
		return ""
	}
	return e.Occupants[0].Group
}

// RoleCount is the number of occupants of an envelope holding Role.
type RoleCount struct {
	Role  Role
	Count int
}

// RoleCounts tallies occupants per role in order of first appearance.
func (e Envelope) RoleCounts() []RoleCount {
	var counts []RoleCount
	index := make(map[Role]int)
	for _, occ := range e.Occupants {
		if i, ok := index[occ.Role]; ok {
			counts[i].Count++
			continue
		}
		index[occ.Role] = len(counts)
		counts = append(counts, RoleCount{Role: occ.Role, Count: 1})
	}
	return counts
}
