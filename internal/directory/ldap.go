package directory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"github.com/kingrea/versand/internal/config"
	"github.com/kingrea/versand/internal/roster"
)

var (
	ldapPeopleAttributes = []string{"dn", "givenName", "sn", "displayName", "street", "postalCode", "l", "memberOf"}
	ldapGroupAttributes  = []string{"dn", "cn", "businessCategory"}
)

// LDAPSource reads members from a directory server. Groups are matched by
// memberOf and every membership gets the configured default role, since LDAP
// has no notion of roles inside a group.
type LDAPSource struct {
	ldapURL      string
	bindUser     string
	bindPassword string
	settings     config.LDAP
	logger       *zap.Logger
}

// NewLDAPSource splits bind credentials off the URI.
func NewLDAPSource(settings config.LDAP, logger *zap.Logger) (*LDAPSource, error) {
	u, err := url.Parse(settings.URI)
	if err != nil {
		return nil, fmt.Errorf("directory: parse ldap uri: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LDAPSource{
		ldapURL:  fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		settings: settings,
		logger:   logger,
	}
	if u.User != nil {
		s.bindUser = u.User.Username()
		s.bindPassword, _ = u.User.Password()
	}
	return s, nil
}

// Fetch searches groups, then people, below the base DN.
func (s *LDAPSource) Fetch(ctx context.Context) (*roster.Dataset, error) {
	conn, err := ldap.DialURL(s.ldapURL)
	if err != nil {
		return nil, fmt.Errorf("directory: ldap dial: %w", err)
	}
	defer conn.Close()

	if s.bindUser != "" && s.bindPassword != "" {
		if err := conn.Bind(s.bindUser, s.bindPassword); err != nil {
			return nil, fmt.Errorf("directory: ldap bind: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	groups, err := s.search(conn, s.settings.GroupsFilter, ldapGroupAttributes)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	people, err := s.search(conn, s.settings.PeopleFilter, ldapPeopleAttributes)
	if err != nil {
		return nil, err
	}
	return assembleEntries(people, groups, s.settings.DefaultRole, s.logger)
}

func (s *LDAPSource) search(conn *ldap.Conn, filter string, attributes []string) ([]*ldap.Entry, error) {
	s.logger.Debug("ldap search", zap.String("base_dn", s.settings.BaseDN), zap.String("filter", filter))
	req := ldap.NewSearchRequest(
		s.settings.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		0,
		false,
		filter,
		attributes,
		nil,
	)
	result, err := conn.SearchWithPaging(req, 500)
	if err != nil {
		return nil, fmt.Errorf("directory: ldap search %s: %w", filter, err)
	}
	return result.Entries, nil
}

// assembleEntries turns search results into a dataset. memberOf values that
// name no group of the groups search are skipped.
func assembleEntries(people, groups []*ldap.Entry, defaultRole string, logger *zap.Logger) (*roster.Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := newAssembler()
	for _, entry := range groups {
		a.addGroup(roster.GroupMembership{
			ID:       normalizeDN(entry.DN),
			Name:     strings.TrimSpace(entry.GetAttributeValue("cn")),
			Category: strings.TrimSpace(entry.GetAttributeValue("businessCategory")),
		})
	}
	for _, entry := range people {
		person := roster.Person{
			FirstName:  strings.TrimSpace(entry.GetAttributeValue("givenName")),
			LastName:   strings.TrimSpace(entry.GetAttributeValue("sn")),
			Nickname:   strings.TrimSpace(entry.GetAttributeValue("displayName")),
			Address:    strings.TrimSpace(entry.GetAttributeValue("street")),
			PostalCode: strings.TrimSpace(entry.GetAttributeValue("postalCode")),
			Town:       strings.TrimSpace(entry.GetAttributeValue("l")),
		}
		var roleIDs []string
		for _, groupDN := range entry.GetAttributeValues("memberOf") {
			groupID := normalizeDN(groupDN)
			if _, ok := a.groups[groupID]; !ok {
				logger.Debug("skipping group outside the groups filter", zap.String("group", groupDN))
				continue
			}
			roleID := normalizeDN(entry.DN) + "|" + groupID
			a.addRole(roster.RoleMembership{
				ID:       roleID,
				Category: defaultRole,
				GroupID:  groupID,
			})
			roleIDs = append(roleIDs, roleID)
		}
		if err := a.addPerson(person, roleIDs); err != nil {
			return nil, err
		}
	}
	return a.dataset()
}

func normalizeDN(dn string) string {
	return strings.ToLower(strings.TrimSpace(dn))
}
