package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kingrea/versand/internal/roster"
)

func TestMultiFansOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	rep := Multi{a, b}
	rep.IncompleteAddress(roster.Person{FirstName: "Eric"})
	rep.InjectionFailed("inject_people.yaml", errors.New("boom"))
	for i, r := range []*Recorder{a, b} {
		if len(r.Incomplete) != 1 || len(r.InjectionErrs) != 1 {
			t.Fatalf("recorder %d missed notifications: %+v", i, r)
		}
	}
}

func TestConsoleNamesMissingFields(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).IncompleteAddress(roster.Person{FirstName: "Eric", LastName: "Mink"})
	out := buf.String()
	for _, want := range []string{"Eric Mink", "address", "postal code", "town"} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output %q missing %q", out, want)
		}
	}
}

func TestLogReporterWritesWarnings(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rep := NewLog(zap.New(core))
	rep.UnknownRoleCategory("Chorleiter/-in")
	entries := logs.FilterMessage("unknown role category").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["category"]; got != "Chorleiter/-in" {
		t.Fatalf("category field = %v", got)
	}
}

func TestOrNop(t *testing.T) {
	if _, ok := OrNop(nil).(Nop); !ok {
		t.Fatalf("OrNop(nil) should return Nop")
	}
	r := &Recorder{}
	if OrNop(r) != Reporter(r) {
		t.Fatalf("OrNop should keep a non-nil reporter")
	}
}
