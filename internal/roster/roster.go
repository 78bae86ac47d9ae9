// Package roster holds the member records delivered by the directory service.
// Records are read-only once built and live for a single run.
package roster

// GroupMembership is a group as the directory names and categorizes it.
type GroupMembership struct {
	ID       string
	Name     string
	Category string
}

// RoleMembership is a role held by a person inside exactly one group.
type RoleMembership struct {
	ID           string
	Category     string
	Label        string
	GroupID      string
	LayerGroupID string
}

// Person is one member record.
type Person struct {
	FirstName   string
	LastName    string
	Nickname    string
	Address     string
	PostalCode  string
	Town        string
	NameParents string
	Roles       []RoleMembership
	Groups      []GroupMembership
}

// AddRole appends a role unless a role with the same id is already present.
func (p *Person) AddRole(role RoleMembership) {
	for _, existing := range p.Roles {
		if existing.ID == role.ID {
			return
		}
	}
	p.Roles = append(p.Roles, role)
}

// AddGroup appends a group unless a group with the same id is already present.
func (p *Person) AddGroup(group GroupMembership) {
	p.Groups = appendGroup(p.Groups, group)
}

// IncompleteAddress reports whether any field needed on an envelope is empty.
func (p Person) IncompleteAddress() bool {
	return p.FirstName == "" ||
		p.LastName == "" ||
		p.Address == "" ||
		p.PostalCode == "" ||
		p.Town == ""
}

// Dataset is the result of one directory fetch: the people and every group
// they were observed in.
type Dataset struct {
	People []Person
	Groups []GroupMembership
}

// AddGroup records an observed group once.
func (d *Dataset) AddGroup(group GroupMembership) {
	d.Groups = appendGroup(d.Groups, group)
}

// Extend appends the people of other without checking for duplicates and
// unions the observed groups.
func (d *Dataset) Extend(other *Dataset) {
	if other == nil {
		return
	}
	d.People = append(d.People, other.People...)
	for _, group := range other.Groups {
		d.AddGroup(group)
	}
}

func appendGroup(groups []GroupMembership, group GroupMembership) []GroupMembership {
	for _, existing := range groups {
		if existing.ID == group.ID {
			return groups
		}
	}
	return append(groups, group)
}
