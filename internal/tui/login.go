package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the operator leaves a screen without
// confirming.
var ErrAborted = errors.New("tui: aborted")

const (
	fieldEmail = iota
	fieldPassword
)

// Credentials are what the operator typed into the sign-in prompt.
type Credentials struct {
	Email    string
	Password string
}

// LoginModel asks for the directory e-mail and password.
type LoginModel struct {
	inputs    []textinput.Model
	focus     int
	signInURL string
	err       string
	submitted bool
	aborted   bool
}

// NewLoginModel prefills the e-mail field with email, which may be empty.
func NewLoginModel(email, signInURL string) *LoginModel {
	emailInput := textinput.New()
	emailInput.Prompt = "E-mail   "
	emailInput.Placeholder = "name@example.org"
	emailInput.CharLimit = 254
	emailInput.SetValue(email)
	emailInput.Focus()

	password := textinput.New()
	password.Prompt = "Password "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginModel{
		inputs:    []textinput.Model{emailInput, password},
		signInURL: signInURL,
	}
}

// Init starts the cursor blink.
func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			if m.focus == fieldEmail {
				return m, m.setFocus(fieldPassword)
			}
			creds := m.Credentials()
			if creds.Email == "" || creds.Password == "" {
				m.err = "E-mail and password are required."
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *LoginModel) setFocus(index int) tea.Cmd {
	n := len(m.inputs)
	m.focus = ((index % n) + n) % n
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

// View renders the prompt.
func (m *LoginModel) View() string {
	lines := []string{headerStyle.Render("Sign in to the member directory")}
	if m.signInURL != "" {
		lines = append(lines, labelStyle.Render(m.signInURL))
	}
	lines = append(lines, "")
	for _, input := range m.inputs {
		lines = append(lines, input.View())
	}
	if m.err != "" {
		lines = append(lines, "", errorStyle.Render(m.err))
	}
	body := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	hint := hintStyle.Render("tab: next field · enter: sign in · esc: cancel")
	return lipgloss.JoinVertical(lipgloss.Left, body, hint) + "\n"
}

// Credentials returns the trimmed e-mail and the password as typed.
func (m *LoginModel) Credentials() Credentials {
	return Credentials{
		Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}
}

// Submitted reports whether the operator confirmed the form.
func (m *LoginModel) Submitted() bool { return m.submitted }

// Aborted reports whether the operator cancelled.
func (m *LoginModel) Aborted() bool { return m.aborted }

// PromptLogin runs the sign-in prompt on the given terminal streams.
func PromptLogin(ctx context.Context, email, signInURL string, in io.Reader, out io.Writer) (Credentials, error) {
	model := NewLoginModel(email, signInURL)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	if _, err := program.Run(); err != nil {
		return Credentials{}, fmt.Errorf("tui: login prompt: %w", err)
	}
	if !model.Submitted() {
		return Credentials{}, ErrAborted
	}
	return model.Credentials(), nil
}
