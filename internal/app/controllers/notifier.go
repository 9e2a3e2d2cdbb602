// Package controllers holds the view-state controllers behind each page: the
// login and registration forms, OTP verification, the review panel, the lesson
// editor and the comment thread. They keep UI state and call services; any
// front end (the CLI, a TUI, a web layer) renders them.
package controllers

import "github.com/rs/zerolog"

// NotificationLevel is the severity of a transient notification
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifySuccess NotificationLevel = "success"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notifier shows transient messages (toasts) to the user
type Notifier interface {
	Notify(level NotificationLevel, message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(level NotificationLevel, message string)

// Notify implements Notifier
func (f NotifierFunc) Notify(level NotificationLevel, message string) { f(level, message) }

// LogNotifier writes notifications to a logger
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify implements Notifier
func (n LogNotifier) Notify(level NotificationLevel, message string) {
	var ev *zerolog.Event
	switch level {
	case NotifyError:
		ev = n.Logger.Error()
	case NotifyWarning:
		ev = n.Logger.Warn()
	default:
		ev = n.Logger.Info()
	}
	ev.Str("level", string(level)).Msg(message)
}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return NotifierFunc(func(NotificationLevel, string) {})
	}
	return n
}
