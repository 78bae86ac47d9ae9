package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWritesTemplateWhenMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir, "")
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("Load error = %v, want ErrMissingConfig", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("template not written: %v", err)
	}
	if string(data) != defaultConfigYAML {
		t.Fatalf("written file does not match the template")
	}

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if len(cfg.Settings.Directory.Endpoints) != 2 {
		t.Fatalf("expected 2 template endpoints, got %d", len(cfg.Settings.Directory.Endpoints))
	}
	if cfg.Settings.Directory.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v, want 30s", cfg.Settings.Directory.Timeout)
	}
	if !cfg.Settings.Print.MergeHouseholds || !cfg.Settings.Print.SideBadges {
		t.Fatalf("print switches should default to on: %+v", cfg.Settings.Print)
	}
}

func TestLoadParsesYaml(t *testing.T) {
	dir := t.TempDir()
	configYAML := strings.TrimSpace(`
directory:
  service_token: " s3rv1ce "
  endpoints:
    - "https://db.example.org/groups/1/people.json?token={service_token}"
    - "  "
files:
  mapping: state/groups.yaml
  output: /tmp/out.pdf
print:
  side_badges: false
  family_prefix: Familie
`)
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	d := cfg.Settings.Directory
	if d.ServiceToken != "s3rv1ce" {
		t.Fatalf("service token not trimmed: %q", d.ServiceToken)
	}
	if len(d.Endpoints) != 1 {
		t.Fatalf("blank endpoints should be dropped, got %v", d.Endpoints)
	}
	if d.SignInURL != DefaultSignInURL {
		t.Fatalf("sign in url = %q, want default", d.SignInURL)
	}
	if got, want := cfg.MappingPath(), filepath.Join(dir, "state", "groups.yaml"); got != want {
		t.Fatalf("MappingPath() = %q, want %q", got, want)
	}
	if got, want := cfg.InjectionPath(), filepath.Join(dir, defaultInjection); got != want {
		t.Fatalf("InjectionPath() = %q, want %q", got, want)
	}
	if cfg.OutputPath() != "/tmp/out.pdf" {
		t.Fatalf("absolute output path rewritten: %q", cfg.OutputPath())
	}
	p := cfg.Settings.Print
	if p.SideBadges || !p.Groups || !p.Names || !p.MergeHouseholds {
		t.Fatalf("unexpected print switches: %+v", p)
	}
	if p.FamilyPrefix != "Familie" {
		t.Fatalf("family prefix = %q", p.FamilyPrefix)
	}
	if cfg.LogoPath() != "" {
		t.Fatalf("LogoPath() = %q, want empty", cfg.LogoPath())
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"no endpoints": `
directory:
  endpoints: []
`,
		"bad scheme": `
directory:
  endpoints: ["ftp://db.example.org/people.json"]
`,
		"bad sql uri": `
directory:
  sql:
    uri: mysql://localhost/db
`,
		"ldap without base": `
directory:
  ldap:
    uri: ldap://localhost
`,
	}
	for name, body := range cases {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(dir, ""); err == nil {
			t.Fatalf("%s: expected validation error but got none", name)
		}
	}
}

func TestAlternativeSourcesGetDefaultQueries(t *testing.T) {
	dir := t.TempDir()
	body := `
directory:
  sql:
    uri: postgres://versand@localhost/members?sslmode=disable
  ldap:
    uri: ldap://localhost
    base_dn: dc=example,dc=org
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	d := cfg.Settings.Directory
	if d.SQL.PeopleQuery != defaultPeopleQuery || d.SQL.GroupsQuery != defaultGroupsQuery {
		t.Fatalf("sql defaults not applied: %+v", d.SQL)
	}
	if d.LDAP.DefaultRole != defaultLDAPRole || d.LDAP.PeopleFilter != defaultLDAPPeopleFilter {
		t.Fatalf("ldap defaults not applied: %+v", d.LDAP)
	}
}

func TestEndpointURLsReplacePlaceholders(t *testing.T) {
	d := Directory{
		LoginEmail:   "leiter@example.org",
		APIToken:     "abc",
		ServiceToken: "xyz",
		Endpoints: []string{
			"https://db.example.org/groups/1/people.json?user_email={login_email}&user_token={api_token}",
			"https://db.example.org/groups/2/people.json?token={service_token}",
		},
	}
	got := d.EndpointURLs()
	want := []string{
		"https://db.example.org/groups/1/people.json?user_email=leiter%40example.org&user_token=abc",
		"https://db.example.org/groups/2/people.json?token=xyz",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EndpointURLs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetCredentialsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir, "custom.yaml"); !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("expected ErrMissingConfig, got %v", err)
	}
	cfg, err := Load(dir, "custom.yaml")
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if err := cfg.SetCredentials("leiter@example.org", "t0k3n"); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}
	reloaded, err := Load(dir, "custom.yaml")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	d := reloaded.Settings.Directory
	if d.LoginEmail != "leiter@example.org" || d.APIToken != "t0k3n" {
		t.Fatalf("credentials not persisted: %+v", d)
	}
	if len(d.Endpoints) != 2 {
		t.Fatalf("endpoints lost on save: %v", d.Endpoints)
	}
	if err := cfg.SetCredentials("", "t0k3n"); err == nil {
		t.Fatalf("expected an error for an empty email")
	}
}

func TestUserRelevantFiles(t *testing.T) {
	cfg := New("/work", "")
	want := []string{"/work/mapping.yaml", "/work/config.yaml", "/work/inject_people.yaml"}
	got := cfg.UserRelevantFiles()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UserRelevantFiles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
