package oracle

import (
	"context"
	"log/slog"

	"github.com/oxalabs/oxakit/pkg/quota"
)

// Asker answers one question. *Client satisfies it; tests substitute their
// own.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Service gates oracle questions behind the usage engine's oracle
// allowance.
type Service struct {
	asker  Asker
	engine *quota.Engine
	log    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the diagnostics logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates the oracle service. Panics on nil dependencies.
func NewService(asker Asker, engine *quota.Engine, opts ...ServiceOption) *Service {
	if asker == nil {
		panic("oracle: Asker is required")
	}
	if engine == nil {
		panic("oracle: quota.Engine is required")
	}

	s := &Service{asker: asker, engine: engine, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanAsk reports whether the oracle allowance permits a question now.
func (s *Service) CanAsk() bool {
	return s.engine.CanAskOracle()
}

// Remaining returns the questions left in the current period.
func (s *Service) Remaining() int {
	return s.engine.RemainingOracle()
}

// Ask sends the question if the allowance permits it. Returns false with no
// error on denial. The allowance is consumed by the request, not its
// outcome.
func (s *Service) Ask(ctx context.Context, question string) (string, bool, error) {
	allowed, err := s.engine.AskOracle(ctx)
	if err != nil {
		return "", false, err
	}
	if !allowed {
		return "", false, nil
	}

	answer, err := s.asker.Ask(ctx, question)
	if err != nil {
		s.log.WarnContext(ctx, "oracle question failed", "error", err)
		return "", false, err
	}
	return answer, true, nil
}
