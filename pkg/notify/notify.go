package notify

import (
	"context"
	"log/slog"
)

// Action is a single optional follow-up the user can trigger from a
// notification, such as restoring purchases after a failed buy.
type Action struct {
	Label   string
	Handler func()
}

// Notification is a user-facing message. Technical error detail never goes
// here; it is logged separately.
type Notification struct {
	Title   string
	Message string
	Action  *Action
}

// Notifier presents notifications to the user.
type Notifier interface {
	Show(ctx context.Context, n Notification)
}

// Func adapts a plain function to the Notifier interface.
type Func func(ctx context.Context, n Notification)

func (f Func) Show(ctx context.Context, n Notification) { f(ctx, n) }

// SlogNotifier logs notifications through a structured logger. It is the
// default sink when no UI-facing notifier is injected.
type SlogNotifier struct {
	log *slog.Logger
}

// NewSlogNotifier creates a notifier over the given logger; a nil logger
// falls back to slog.Default.
func NewSlogNotifier(log *slog.Logger) *SlogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &SlogNotifier{log: log}
}

func (s *SlogNotifier) Show(ctx context.Context, n Notification) {
	attrs := []any{"title", n.Title, "message", n.Message}
	if n.Action != nil {
		attrs = append(attrs, "action", n.Action.Label)
	}
	s.log.InfoContext(ctx, "user notification", attrs...)
}

// Discard drops every notification. Useful in tests.
var Discard Notifier = Func(func(context.Context, Notification) {})
