package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/versand/internal/roster"
)

var (
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Console prints notifications for an operator watching the terminal.
type Console struct {
	out io.Writer
}

// NewConsole writes styled notifications to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) DownloadFinished(people int) {
	c.line(infoStyle, "Download finished: %d people.", people)
}

func (c *Console) ParsingFinished(envelopes int) {
	c.line(infoStyle, "Households merged: %d envelopes.", envelopes)
}

func (c *Console) IncompleteAddress(person roster.Person) {
	c.line(warnStyle, "Incomplete address: %s", describePerson(person))
}

func (c *Console) UnknownRoleCategory(category string) {
	c.line(warnStyle, "Unknown role category %q, printing no role for it.", category)
}

func (c *Console) MappingReset(path string, err error) {
	c.line(warnStyle, "Could not use group mapping %s (%v), rebuilding it.", path, err)
}

func (c *Console) MissingConfigFile(path string) {
	c.line(errorStyle, "Config file %s was missing. A template has been written, please fill it in.", path)
}

func (c *Console) InjectionFailed(path string, err error) {
	c.line(errorStyle, "Skipping injected envelopes from %s: %v", path, err)
}

func (c *Console) RenderFinished(path string, pages int) {
	c.line(infoStyle, "Wrote %d envelopes to %s.", pages, path)
}

func (c *Console) Info(msg string) {
	c.line(dimStyle, "%s", msg)
}

func (c *Console) line(style lipgloss.Style, format string, args ...any) {
	if c == nil || c.out == nil {
		return
	}
	fmt.Fprintln(c.out, style.Render(fmt.Sprintf(format, args...)))
}

func describePerson(p roster.Person) string {
	var missing []string
	if p.FirstName == "" {
		missing = append(missing, "first name")
	}
	if p.LastName == "" {
		missing = append(missing, "last name")
	}
	if p.Address == "" {
		missing = append(missing, "address")
	}
	if p.PostalCode == "" {
		missing = append(missing, "postal code")
	}
	if p.Town == "" {
		missing = append(missing, "town")
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		name = "(no name)"
	}
	if len(missing) == 0 {
		return name
	}
	return fmt.Sprintf("%s, missing %s", name, strings.Join(missing, ", "))
}
