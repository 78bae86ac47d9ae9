package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/versand/internal/notify"
	"github.com/kingrea/versand/internal/roster"
)

func strPtr(s string) *string { return &s }

func TestAutocorrectGroupName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Holon (M)", "Holon"},
		{"Skapande (F)", "Skapande"},
		{"Fröschli Pfäffikon-Fehraltorf-Hittnau-Russikon", "Fröschli"},
		{"  Trägerkreis Mitglieder ", "Trägerkreis"},
		{"Trägerkreis Mitglieder Pfäffikon-Fehraltorf-Hittnau-Russikon", "Trägerkreis"},
		{"Vorstand", "Vorstand"},
		{"(M)", "(M)"},
	}
	for _, tc := range cases {
		if got := AutocorrectGroupName(tc.in); got != tc.want {
			t.Fatalf("AutocorrectGroupName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMergePriorityWins(t *testing.T) {
	priority := &GroupMapping{Map: map[string]GroupNames{
		"1": {OriginalName: "Holon (M)", DisplayName: strPtr("Die Holonen")},
		"3": {OriginalName: "Alt", DisplayName: nil},
	}}
	fallback := &GroupMapping{Map: map[string]GroupNames{
		"1": {OriginalName: "Holon (M)", DisplayName: strPtr("Holon")},
		"2": {OriginalName: "Vorstand", DisplayName: strPtr("Vorstand")},
	}}
	merged := Merge(priority, fallback)

	for id := range priority.Map {
		if diff := cmp.Diff(priority.Map[id], merged.Map[id]); diff != "" {
			t.Fatalf("priority entry %s changed (-want +got):\n%s", id, diff)
		}
	}
	if diff := cmp.Diff(fallback.Map["2"], merged.Map["2"]); diff != "" {
		t.Fatalf("fallback-only entry changed (-want +got):\n%s", diff)
	}
	if merged.Len() != 3 {
		t.Fatalf("merged.Len() = %d, want 3", merged.Len())
	}

	*merged.Map["1"].DisplayName = "mutated"
	if *priority.Map["1"].DisplayName != "Die Holonen" {
		t.Fatalf("Merge shares display name storage with its input")
	}
}

func TestMergeNilInputs(t *testing.T) {
	if got := Merge(nil, nil); got.Len() != 0 {
		t.Fatalf("Merge(nil, nil).Len() = %d", got.Len())
	}
	fallback := FromObservedGroups([]roster.GroupMembership{{ID: "7", Name: "Holon (F)"}})
	if got, _ := Merge(nil, fallback).DisplayName("7"); got != "Holon" {
		t.Fatalf("display name = %q, want Holon", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := &GroupMapping{Map: map[string]GroupNames{
		"115":  {OriginalName: "Pfäffikon-Fehraltorf-Hittnau-Russikon", DisplayName: strPtr("")},
		"2423": {OriginalName: "Holon (M)", DisplayName: strPtr("Holon")},
		"9":    {OriginalName: "Ehemalige", DisplayName: nil},
	}}
	data, err := Save(m)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(m, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load([]byte("map: [this is: not, a map"))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Load error = %v, want ErrParse", err)
	}
	empty, err := Load([]byte("  \n"))
	if err != nil || empty.Len() != 0 {
		t.Fatalf("empty document: %v, len %d", err, empty.Len())
	}
}

func TestDisplayName(t *testing.T) {
	m := &GroupMapping{Map: map[string]GroupNames{
		"1": {OriginalName: "Holon (M)", DisplayName: strPtr("Holon")},
		"2": {OriginalName: "Ehemalige"},
	}}
	if got, ok := m.DisplayName("1"); !ok || got != "Holon" {
		t.Fatalf("DisplayName(1) = %q, %v", got, ok)
	}
	if got, ok := m.DisplayName("2"); !ok || got != "Ehemalige" {
		t.Fatalf("DisplayName(2) = %q, %v", got, ok)
	}
	if _, ok := m.DisplayName("404"); ok {
		t.Fatalf("unknown id resolved")
	}
}

func TestStoreSyncKeepsOperatorEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	edited := `map:
  "1":
    original_name: Holon (M)
    display_name: Die Holonen
  "99":
    original_name: Aufgelöst
    display_name: Aufgelöst
`
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	observed := []roster.GroupMembership{
		{ID: "1", Name: "Holon (M)", Category: "Untergruppe"},
		{ID: "2", Name: "Skapande (F)", Category: "Untergruppe"},
	}
	rec := &notify.Recorder{}
	merged, err := NewStore(path).Sync(observed, rec)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(rec.MappingErrors) != 0 {
		t.Fatalf("unexpected mapping reset: %v", rec.MappingErrors)
	}
	want := map[string]string{"1": "Die Holonen", "2": "Skapande", "99": "Aufgelöst"}
	for id, name := range want {
		if got, _ := merged.DisplayName(id); got != name {
			t.Fatalf("DisplayName(%s) = %q, want %q", id, got, name)
		}
	}

	reread, err := NewStore(path).Read()
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if diff := cmp.Diff(merged, reread); diff != "" {
		t.Fatalf("file does not hold the merged table (-want +got):\n%s", diff)
	}
}

func TestStoreSyncRecoversFromBrokenFile(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]func(path string){
		"missing": func(string) {},
		"garbage": func(path string) {
			if err := os.WriteFile(path, []byte("map: [oops"), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		},
	}
	for name, setup := range cases {
		path := filepath.Join(dir, name+".yaml")
		setup(path)
		rec := &notify.Recorder{}
		merged, err := NewStore(path).Sync([]roster.GroupMembership{{ID: "5", Name: "Holon (M)"}}, rec)
		if err != nil {
			t.Fatalf("%s: sync: %v", name, err)
		}
		if len(rec.MappingErrors) != 1 {
			t.Fatalf("%s: expected one reported reset, got %v", name, rec.MappingErrors)
		}
		if got, _ := merged.DisplayName("5"); got != "Holon" {
			t.Fatalf("%s: DisplayName(5) = %q", name, got)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s: mapping file not written: %v", name, err)
		}
	}
}

func TestStoreSyncFailsOnUnreadableFile(t *testing.T) {
	// A directory in place of the file cannot be read as a document.
	path := t.TempDir()
	if _, err := NewStore(path).Sync(nil, nil); err == nil {
		t.Fatalf("expected an error for an unreadable mapping file")
	}
}
