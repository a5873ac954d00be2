package quota

import (
	"log/slog"
	"time"

	"github.com/oxalabs/oxakit/pkg/notify"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the engine's time source. Tests use this to pin
// rollover boundaries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithNotifier sets the sink for limit-reached notifications.
// Defaults to a slog-backed notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the logger for diagnostics. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithStorageKey overrides the key the state is persisted under.
func WithStorageKey(key string) Option {
	return func(e *Engine) {
		if key != "" {
			e.key = key
		}
	}
}

// WithBypass starts the engine in bypass mode: every check allows, every
// consume succeeds without counting, and every remaining count reports the
// unlimited sentinel. Development and test builds only.
func WithBypass(enabled bool) Option {
	return func(e *Engine) {
		e.bypass = enabled
	}
}
