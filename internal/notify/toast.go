package notify

import "github.com/rs/zerolog"

// Toast is the log-only surface used where there is no page to draw on.
type Toast struct {
	logger zerolog.Logger
}

// NewToast returns a Toast writing to logger.
func NewToast(logger zerolog.Logger) *Toast {
	return &Toast{logger: logger}
}

func (t *Toast) Notify(message string, severity Severity) {
	severity = severity.orInfo()
	ev := t.logger.Info()
	if severity == SeverityDanger {
		ev = t.logger.Error()
	}
	ev.Str("severity", string(severity)).Msg(message)
}
