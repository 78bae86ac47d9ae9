package notify

import (
	"go.uber.org/zap"

	"github.com/kingrea/versand/internal/roster"
)

// Log writes notifications to a zap logger so they end up in the run log.
type Log struct {
	logger *zap.Logger
}

// NewLog wraps logger; a nil logger discards everything.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

func (l *Log) DownloadFinished(people int) {
	l.logger.Info("download finished", zap.Int("people", people))
}

func (l *Log) ParsingFinished(envelopes int) {
	l.logger.Info("households merged", zap.Int("envelopes", envelopes))
}

func (l *Log) IncompleteAddress(person roster.Person) {
	l.logger.Warn("incomplete address",
		zap.String("first_name", person.FirstName),
		zap.String("last_name", person.LastName),
		zap.String("address", person.Address),
		zap.String("postal_code", person.PostalCode),
		zap.String("town", person.Town),
	)
}

func (l *Log) UnknownRoleCategory(category string) {
	l.logger.Warn("unknown role category", zap.String("category", category))
}

func (l *Log) MappingReset(path string, err error) {
	l.logger.Warn("group mapping reset", zap.String("path", path), zap.Error(err))
}

func (l *Log) MissingConfigFile(path string) {
	l.logger.Error("config file missing, template written", zap.String("path", path))
}

func (l *Log) InjectionFailed(path string, err error) {
	l.logger.Error("injection skipped", zap.String("path", path), zap.Error(err))
}

func (l *Log) RenderFinished(path string, pages int) {
	l.logger.Info("document rendered", zap.String("path", path), zap.Int("pages", pages))
}

func (l *Log) Info(msg string) {
	l.logger.Info(msg)
}
