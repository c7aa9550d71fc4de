package models

import "time"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// AppNotification is a transient user-facing message. Duration of zero
// means the notification stays until dismissed; the store never runs
// timers, auto-dismiss is scheduled by whoever renders it.
type AppNotification struct {
	ID       string        `json:"id"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration,omitempty"`
}
