package directory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/blockloop/scan/v2"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kingrea/versand/internal/config"
	"github.com/kingrea/versand/internal/roster"
)

// SQLSource reads members from a postgres copy of the directory with three
// configured queries.
type SQLSource struct {
	db       *sql.DB
	settings config.SQL
	logger   *zap.Logger
}

type personRow struct {
	ID          string `db:"id"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Nickname    string `db:"nickname"`
	Address     string `db:"address"`
	ZipCode     string `db:"zip_code"`
	Town        string `db:"town"`
	NameParents string `db:"name_parents"`
}

type roleRow struct {
	ID           string `db:"id"`
	PersonID     string `db:"person_id"`
	RoleType     string `db:"role_type"`
	Label        string `db:"label"`
	GroupID      string `db:"group_id"`
	LayerGroupID string `db:"layer_group_id"`
}

type groupRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	GroupType string `db:"group_type"`
}

// NewSQLSource opens the database lazily; the first query connects.
func NewSQLSource(settings config.SQL, logger *zap.Logger) (*SQLSource, error) {
	db, err := sql.Open("postgres", settings.URI)
	if err != nil {
		return nil, fmt.Errorf("directory: open database: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLSource{db: db, settings: settings, logger: logger}, nil
}

// Fetch runs the groups, roles and people queries and joins them.
func (s *SQLSource) Fetch(ctx context.Context) (*roster.Dataset, error) {
	var groups []groupRow
	if err := s.query(ctx, s.settings.GroupsQuery, &groups); err != nil {
		return nil, err
	}
	var roles []roleRow
	if err := s.query(ctx, s.settings.RolesQuery, &roles); err != nil {
		return nil, err
	}
	var people []personRow
	if err := s.query(ctx, s.settings.PeopleQuery, &people); err != nil {
		return nil, err
	}
	return assembleRows(people, roles, groups)
}

// Close releases the connection pool.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

func (s *SQLSource) query(ctx context.Context, query string, dest any) error {
	s.logger.Debug("sql query", zap.String("query", query))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("directory: query %q: %w", query, err)
	}
	defer rows.Close()
	if err := scan.Rows(dest, rows); err != nil {
		return fmt.Errorf("directory: scan %q: %w", query, err)
	}
	return nil
}

// assembleRows joins the three result sets. People keep query order and their
// roles keep the order of the roles query.
func assembleRows(people []personRow, roles []roleRow, groups []groupRow) (*roster.Dataset, error) {
	a := newAssembler()
	for _, g := range groups {
		a.addGroup(roster.GroupMembership{
			ID:       strings.TrimSpace(g.ID),
			Name:     strings.TrimSpace(g.Name),
			Category: strings.TrimSpace(g.GroupType),
		})
	}
	rolesByPerson := map[string][]string{}
	for _, r := range roles {
		id := strings.TrimSpace(r.ID)
		a.addRole(roster.RoleMembership{
			ID:           id,
			Category:     strings.TrimSpace(r.RoleType),
			Label:        strings.TrimSpace(r.Label),
			GroupID:      strings.TrimSpace(r.GroupID),
			LayerGroupID: strings.TrimSpace(r.LayerGroupID),
		})
		person := strings.TrimSpace(r.PersonID)
		rolesByPerson[person] = append(rolesByPerson[person], id)
	}
	for _, p := range people {
		person := roster.Person{
			FirstName:   strings.TrimSpace(p.FirstName),
			LastName:    strings.TrimSpace(p.LastName),
			Nickname:    strings.TrimSpace(p.Nickname),
			Address:     strings.TrimSpace(p.Address),
			PostalCode:  strings.TrimSpace(p.ZipCode),
			Town:        strings.TrimSpace(p.Town),
			NameParents: strings.TrimSpace(p.NameParents),
		}
		if err := a.addPerson(person, rolesByPerson[strings.TrimSpace(p.ID)]); err != nil {
			return nil, err
		}
	}
	return a.dataset()
}
