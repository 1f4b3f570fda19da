package scheduler

import (
	"github.com/lifebooster/core/internal/infrastructure/logger"
)

// LogSink delivers reminders to the application log. It stands in for the
// OS notification channel of the original environment; a disabled sink
// corresponds to notification permission never having been granted.
type LogSink struct {
	logger  *logger.Logger
	enabled bool
}

// NewLogSink creates a log-backed delivery sink.
func NewLogSink(appLogger *logger.Logger, enabled bool) *LogSink {
	return &LogSink{
		logger:  appLogger.WithComponent("reminder"),
		enabled: enabled,
	}
}

func (s *LogSink) Deliver(title, body string) {
	s.logger.Infow("Reminder fired", "title", title, "body", body)
}

func (s *LogSink) Enabled() bool {
	return s.enabled
}
