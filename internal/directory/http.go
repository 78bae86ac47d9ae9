package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/versand/internal/roster"
)

// HTTPSource downloads people.json documents and combines them. Endpoints are
// fetched concurrently; the combined dataset keeps endpoint order.
type HTTPSource struct {
	Client    *http.Client
	Endpoints []string
	logger    *zap.Logger
}

// NewHTTPSource returns a source for fully formatted endpoint URLs.
func NewHTTPSource(endpoints []string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		Client:    &http.Client{Timeout: timeout},
		Endpoints: endpoints,
		logger:    logger,
	}
}

// Fetch downloads every endpoint. The first failure cancels the others.
func (s *HTTPSource) Fetch(ctx context.Context) (*roster.Dataset, error) {
	if len(s.Endpoints) == 0 {
		return nil, fmt.Errorf("directory: no endpoints configured")
	}
	results := make([]*roster.Dataset, len(s.Endpoints))
	g, ctx := errgroup.WithContext(ctx)
	for i, endpoint := range s.Endpoints {
		i, endpoint := i, endpoint // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			ds, err := s.fetchOne(ctx, endpoint)
			if err != nil {
				return err
			}
			results[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := &roster.Dataset{}
	for _, ds := range results {
		combined.Extend(ds)
	}
	return combined, nil
}

func (s *HTTPSource) fetchOne(ctx context.Context, endpoint string) (*roster.Dataset, error) {
	shown := redact(endpoint)
	s.logger.Debug("fetching endpoint", zap.String("endpoint", shown))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("directory: build request %s: %w", shown, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory: get %s: %w", shown, redactErr(err))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("directory: get %s: unexpected status %s", shown, resp.Status)
	}
	ds, err := DecodePeople(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("directory: %s: %w", shown, err)
	}
	s.logger.Debug("endpoint done", zap.String("endpoint", shown), zap.Int("people", len(ds.People)))
	return ds, nil
}

func (s *HTTPSource) client() *http.Client {
	if s.Client == nil {
		return http.DefaultClient
	}
	return s.Client
}

// DecodePeople parses one people.json response. Ids may be JSON strings or
// numbers and null text fields read as empty strings.
func DecodePeople(r io.Reader) (*roster.Dataset, error) {
	var payload peopleResponse
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode people: %w", err)
	}
	a := newAssembler()
	for _, g := range payload.Linked.Groups {
		a.addGroup(roster.GroupMembership{
			ID:       string(g.ID),
			Name:     strings.TrimSpace(g.Name),
			Category: strings.TrimSpace(g.GroupType),
		})
	}
	for _, r := range payload.Linked.Roles {
		a.addRole(roster.RoleMembership{
			ID:           string(r.ID),
			Category:     strings.TrimSpace(r.RoleType),
			Label:        strings.TrimSpace(r.Label),
			GroupID:      string(r.Links.Group),
			LayerGroupID: string(r.Links.LayerGroup),
		})
	}
	for _, p := range payload.People {
		person := roster.Person{
			FirstName:   strings.TrimSpace(p.FirstName),
			LastName:    strings.TrimSpace(p.LastName),
			Nickname:    strings.TrimSpace(p.Nickname),
			Address:     strings.TrimSpace(p.Address),
			PostalCode:  strings.TrimSpace(p.ZipCode),
			Town:        strings.TrimSpace(p.Town),
			NameParents: strings.TrimSpace(p.NameParents),
		}
		roleIDs := make([]string, 0, len(p.Links.Roles))
		for _, id := range p.Links.Roles {
			roleIDs = append(roleIDs, string(id))
		}
		if err := a.addPerson(person, roleIDs); err != nil {
			return nil, err
		}
	}
	return a.dataset()
}

type peopleResponse struct {
	People []personJSON `json:"people"`
	Linked struct {
		Groups []groupJSON `json:"groups"`
		Roles  []roleJSON  `json:"roles"`
	} `json:"linked"`
}

type personJSON struct {
	ID          flexibleID `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Nickname    string     `json:"nickname"`
	Address     string     `json:"address"`
	ZipCode     string     `json:"zip_code"`
	Town        string     `json:"town"`
	NameParents string     `json:"name_parents"`
	Links       struct {
		Roles []flexibleID `json:"roles"`
	} `json:"links"`
}

type groupJSON struct {
	ID        flexibleID `json:"id"`
	Name      string     `json:"name"`
	GroupType string     `json:"group_type"`
}

type roleJSON struct {
	ID       flexibleID `json:"id"`
	RoleType string     `json:"role_type"`
	Label    string     `json:"label"`
	Links    struct {
		Group      flexibleID `json:"group"`
		LayerGroup flexibleID `json:"layer_group"`
	} `json:"links"`
}

// flexibleID accepts "115", 115 and null.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id %s is neither string nor number", data)
	}
	*id = flexibleID(n.String())
	return nil
}

// redact drops the query string, which carries the tokens.
func redact(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "<invalid url>"
	}
	if u.RawQuery != "" {
		u.RawQuery = "redacted"
	}
	return u.String()
}

// redactErr strips the full URL net/http puts into its errors.
func redactErr(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
