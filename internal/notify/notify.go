// Package notify renders transient user notifications: a single replaceable
// alert banner, or a log-only toast.
package notify

// Severity selects the banner style and icon.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityInfo    Severity = "info"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeveritySuccess, SeverityDanger, SeverityInfo:
		return true
	}
	return false
}

// orInfo maps unknown severities to SeverityInfo.
func (s Severity) orInfo() Severity {
	if s.Valid() {
		return s
	}
	return SeverityInfo
}

// Notification is one message shown to the user.
type Notification struct {
	Message  string
	Severity Severity
}

// Surface displays notifications. Implementations must be safe for
// concurrent use; the most recent call wins.
type Surface interface {
	Notify(message string, severity Severity)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(message string, severity Severity)

func (f SurfaceFunc) Notify(message string, severity Severity) { f(message, severity) }

// Discard drops every notification.
var Discard Surface = SurfaceFunc(func(string, Severity) {})

// Tee fans each notification out to every surface, in order.
func Tee(surfaces ...Surface) Surface {
	return SurfaceFunc(func(message string, severity Severity) {
		for _, s := range surfaces {
			s.Notify(message, severity)
		}
	})
}
