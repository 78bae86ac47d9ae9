// Package notify carries progress and recoverable problems from the pipeline
// to whoever runs it. Fatal problems are returned as errors instead.
package notify

import "github.com/kingrea/versand/internal/roster"

// Reporter receives pipeline notifications. Implementations must not block.
type Reporter interface {
	DownloadFinished(people int)
	ParsingFinished(envelopes int)
	IncompleteAddress(person roster.Person)
	UnknownRoleCategory(category string)
	MappingReset(path string, err error)
	MissingConfigFile(path string)
	InjectionFailed(path string, err error)
	RenderFinished(path string, pages int)
	Info(msg string)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) DownloadFinished(int) {}
func (Nop) ParsingFinished(int) {}
func (Nop) IncompleteAddress(roster.Person) {}
func (Nop) UnknownRoleCategory(string) {}
func (Nop) MappingReset(string, error) {}
func (Nop) MissingConfigFile(string) {}
func (Nop) InjectionFailed(string, error) {}
func (Nop) RenderFinished(string, int) {}
func (Nop) Info(string) {}

// Multi fans every notification out to all reporters in order.
type Multi []Reporter

func (m Multi) DownloadFinished(people int) {
	for _, r := range m {
		r.DownloadFinished(people)
	}
}

func (m Multi) ParsingFinished(envelopes int) {
	for _, r := range m {
		r.ParsingFinished(envelopes)
	}
}

func (m Multi) IncompleteAddress(person roster.Person) {
	for _, r := range m {
		r.IncompleteAddress(person)
	}
}

func (m Multi) UnknownRoleCategory(category string) {
	for _, r := range m {
		r.UnknownRoleCategory(category)
	}
}

func (m Multi) MappingReset(path string, err error) {
	for _, r := range m {
		r.MappingReset(path, err)
	}
}

func (m Multi) MissingConfigFile(path string) {
	for _, r := range m {
		r.MissingConfigFile(path)
	}
}

func (m Multi) InjectionFailed(path string, err error) {
	for _, r := range m {
		r.InjectionFailed(path, err)
	}
}

func (m Multi) RenderFinished(path string, pages int) {
	for _, r := range m {
		r.RenderFinished(path, pages)
	}
}

func (m Multi) Info(msg string) {
	for _, r := range m {
		r.Info(msg)
	}
}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return Nop{}
	}
	return r
}
