package notify

import (
	"sync"

	"github.com/kingrea/versand/internal/roster"
)

// Recorder keeps every notification in memory. Tests use it to assert on
// recoverable problems.
type Recorder struct {
	mu sync.Mutex

	Incomplete     []roster.Person
	UnknownRoles   []string
	MappingErrors  []error
	MissingConfigs []string
	InjectionErrs  []error
	Messages       []string
	Downloaded     int
	Envelopes      int
	Pages          int
}

func (r *Recorder) DownloadFinished(people int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Downloaded = people
}

func (r *Recorder) ParsingFinished(envelopes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Envelopes = envelopes
}

func (r *Recorder) IncompleteAddress(person roster.Person) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Incomplete = append(r.Incomplete, person)
}

func (r *Recorder) UnknownRoleCategory(category string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UnknownRoles = append(r.UnknownRoles, category)
}

func (r *Recorder) MappingReset(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MappingErrors = append(r.MappingErrors, err)
}

func (r *Recorder) MissingConfigFile(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MissingConfigs = append(r.MissingConfigs, path)
}

func (r *Recorder) InjectionFailed(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InjectionErrs = append(r.InjectionErrs, err)
}

func (r *Recorder) RenderFinished(_ string, pages int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Pages = pages
}

func (r *Recorder) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, msg)
}
