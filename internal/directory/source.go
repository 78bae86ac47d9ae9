// Package directory downloads member data from the organization's directory.
// The hitobito JSON API is the primary source; a postgres database or an LDAP
// server can stand in for it.
package directory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrea/versand/internal/config"
	"github.com/kingrea/versand/internal/roster"
)

var (
	// ErrInconsistentData means a person links to a role or a role links to a
	// group the response does not contain.
	ErrInconsistentData = errors.New("directory: inconsistent data")
	// ErrNoPeople means a source answered without a single person.
	ErrNoPeople = errors.New("directory: no people in response")
)

// Source delivers the people of one run.
type Source interface {
	Fetch(ctx context.Context) (*roster.Dataset, error)
}

// New picks the source the config asks for: SQL when sql.uri is set, LDAP when
// ldap.uri is set, the JSON endpoints otherwise.
func New(cfg config.Directory, logger *zap.Logger) (Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch {
	case cfg.SQL.URI != "":
		src, err := NewSQLSource(cfg.SQL, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	case cfg.LDAP.URI != "":
		src, err := NewLDAPSource(cfg.LDAP, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	case len(cfg.Endpoints) > 0:
		return NewHTTPSource(cfg.EndpointURLs(), cfg.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("directory: no source configured")
	}
}

// assembler joins people, roles and groups that arrive as separate lists into
// a dataset. Groups are recorded in the order persons reference them.
type assembler struct {
	roles  map[string]roster.RoleMembership
	groups map[string]roster.GroupMembership
	ds     *roster.Dataset
}

func newAssembler() *assembler {
	return &assembler{
		roles:  map[string]roster.RoleMembership{},
		groups: map[string]roster.GroupMembership{},
		ds:     &roster.Dataset{},
	}
}

func (a *assembler) addGroup(group roster.GroupMembership) {
	a.groups[group.ID] = group
}

func (a *assembler) addRole(role roster.RoleMembership) {
	a.roles[role.ID] = role
}

// addPerson resolves roleIDs and the group behind each role.
func (a *assembler) addPerson(person roster.Person, roleIDs []string) error {
	for _, id := range roleIDs {
		role, ok := a.roles[id]
		if !ok {
			return fmt.Errorf("%w: role %s of %s %s", ErrInconsistentData, id, person.FirstName, person.LastName)
		}
		group, ok := a.groups[role.GroupID]
		if !ok {
			return fmt.Errorf("%w: group %s of role %s", ErrInconsistentData, role.GroupID, id)
		}
		person.AddRole(role)
		person.AddGroup(group)
		a.ds.AddGroup(group)
	}
	a.ds.People = append(a.ds.People, person)
	return nil
}

func (a *assembler) dataset() (*roster.Dataset, error) {
	if len(a.ds.People) == 0 {
		return nil, ErrNoPeople
	}
	return a.ds, nil
}
