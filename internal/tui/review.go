package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/versand/internal/envelope"
)

// envelopeItem implements list.Item for one envelope.
type envelopeItem struct {
	env envelope.Envelope
}

func (i envelopeItem) Title() string {
	if len(i.env.Address) == 0 {
		return "(no address)"
	}
	return i.env.Address[0]
}

func (i envelopeItem) Description() string {
	parts := make([]string, 0, len(i.env.Occupants))
	for _, occ := range i.env.Occupants {
		if occ.Group == "" {
			parts = append(parts, occ.Name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", occ.Name, occ.Group))
	}
	return strings.Join(parts, ", ")
}

func (i envelopeItem) FilterValue() string {
	return strings.Join(i.env.Address, " ") + " " + i.Description()
}

// ReviewModel lists the envelopes about to be printed and waits for the
// operator to confirm or abort.
type ReviewModel struct {
	list      list.Model
	confirmed bool
	aborted   bool
}

// NewReviewModel lists envelopes in printing order.
func NewReviewModel(envelopes []envelope.Envelope) *ReviewModel {
	items := make([]list.Item, len(envelopes))
	for i, env := range envelopes {
		items[i] = envelopeItem{env: env}
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("%d envelopes ready to print", len(envelopes))
	l.Styles.Title = headerStyle
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return &ReviewModel{list: l}
}

// Init does nothing; the list needs no startup command.
func (m *ReviewModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses and terminal resizes.
func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(max(0, msg.Width-2), max(0, msg.Height-2))
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter", "p":
			m.confirmed = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list and the key hints.
func (m *ReviewModel) View() string {
	hint := hintStyle.Render("enter: print · /: filter · q: abort")
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), hint) + "\n"
}

// Confirmed reports whether the operator chose to print.
func (m *ReviewModel) Confirmed() bool { return m.confirmed }

// Aborted reports whether the operator left without printing.
func (m *ReviewModel) Aborted() bool { return m.aborted }

// Review shows envelopes on the given terminal streams and reports whether
// the operator confirmed printing.
func Review(ctx context.Context, envelopes []envelope.Envelope, in io.Reader, out io.Writer) (bool, error) {
	model := NewReviewModel(envelopes)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return false, fmt.Errorf("tui: review: %w", err)
	}
	return model.Confirmed(), nil
}
