package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/versand/internal/envelope"
)

func typeText(t *testing.T, m tea.Model, text string) tea.Model {
	t.Helper()
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m tea.Model, key tea.KeyType) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: key})
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestLoginSubmitsCredentials(t *testing.T) {
	login := NewLoginModel("", "https://db.example.org/users/sign_in.json")
	var model tea.Model = login
	model = typeText(t, model, " eric@example.org ")
	model, _ = press(model, tea.KeyTab)
	model = typeText(t, model, "s3cret")
	model, cmd := press(model, tea.KeyEnter)

	if !isQuit(cmd) {
		t.Fatalf("enter on the password field should quit the prompt")
	}
	if !login.Submitted() || login.Aborted() {
		t.Fatalf("submitted = %v, aborted = %v", login.Submitted(), login.Aborted())
	}
	got := login.Credentials()
	if got.Email != "eric@example.org" || got.Password != "s3cret" {
		t.Fatalf("credentials = %+v", got)
	}
	if strings.Contains(model.View(), "s3cret") {
		t.Fatalf("password echoed in view")
	}
}

func TestLoginEnterOnEmailMovesFocus(t *testing.T) {
	login := NewLoginModel("eric@example.org", "")
	model, cmd := press(login, tea.KeyEnter)
	if isQuit(cmd) || login.Submitted() {
		t.Fatalf("enter on the e-mail field must not submit")
	}
	model = typeText(t, model, "pw")
	if login.Credentials().Password != "pw" {
		t.Fatalf("typing after enter should fill the password, got %+v", login.Credentials())
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	login := NewLoginModel("", "")
	var model tea.Model = login
	model, _ = press(model, tea.KeyTab)
	model, cmd := press(model, tea.KeyEnter)
	if isQuit(cmd) || login.Submitted() {
		t.Fatalf("empty form must not submit")
	}
	if !strings.Contains(model.View(), "required") {
		t.Fatalf("missing validation message in view: %q", model.View())
	}
}

func TestLoginEscAborts(t *testing.T) {
	login := NewLoginModel("", "")
	_, cmd := press(login, tea.KeyEsc)
	if !isQuit(cmd) || !login.Aborted() || login.Submitted() {
		t.Fatalf("esc should abort the prompt")
	}
}

func reviewEnvelopes() []envelope.Envelope {
	return []envelope.Envelope{
		{
			Occupants: []envelope.Occupant{
				{Name: "Anna", Group: "Holon", Role: envelope.Known(envelope.RoleLeader)},
				{Name: "Ben", Group: "Holon", Role: envelope.Known(envelope.RoleParticipant)},
			},
			Address: []string{"Family Mink", "Neuwiesenstrasse 2", "8332 Russikon"},
		},
		{
			Occupants: []envelope.Occupant{{Name: "Zora", Role: envelope.Custom("Zora")}},
			Address:   []string{"Zora", "Seeweg 4", "8000 Zürich"},
		},
	}
}

func TestReviewItems(t *testing.T) {
	review := NewReviewModel(reviewEnvelopes())
	items := review.list.Items()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	first := items[0].(envelopeItem)
	if first.Title() != "Family Mink" {
		t.Fatalf("title = %q", first.Title())
	}
	if first.Description() != "Anna (Holon), Ben (Holon)" {
		t.Fatalf("description = %q", first.Description())
	}
	if got := items[1].(envelopeItem).Description(); got != "Zora" {
		t.Fatalf("description without group = %q", got)
	}
}

func TestReviewConfirm(t *testing.T) {
	review := NewReviewModel(reviewEnvelopes())
	model, _ := review.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if !strings.Contains(model.View(), "2 envelopes") {
		t.Fatalf("title missing from view: %q", model.View())
	}
	_, cmd := press(model, tea.KeyEnter)
	if !isQuit(cmd) || !review.Confirmed() || review.Aborted() {
		t.Fatalf("enter should confirm printing")
	}
}

func TestReviewAbort(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		review := NewReviewModel(reviewEnvelopes())
		_, cmd := review.Update(key)
		if !isQuit(cmd) || review.Confirmed() || !review.Aborted() {
			t.Fatalf("%s should abort the review", key.String())
		}
	}
}
