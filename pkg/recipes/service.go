package recipes

import (
	"context"
	"log/slog"

	"github.com/oxalabs/oxakit/pkg/quota"
)

// Generator produces a recipe from a prompt. *Client satisfies it; tests
// substitute their own.
type Generator interface {
	GenerateRecipe(ctx context.Context, prompt string) (Recipe, error)
}

// Service gates recipe generation behind the usage engine's recipe
// allowance and manages the saved list.
type Service struct {
	generator Generator
	engine    *quota.Engine
	saved     *SavedStore
	log       *slog.Logger
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

// NewService creates the recipe service. Panics on nil dependencies.
func NewService(generator Generator, engine *quota.Engine, saved *SavedStore, opts ...ServiceOption) *Service {
	if generator == nil {
		panic("recipes: Generator is required")
	}
	if engine == nil {
		panic("recipes: quota.Engine is required")
	}
	if saved == nil {
		panic("recipes: SavedStore is required")
	}

	s := &Service{
		generator: generator,
		engine:    engine,
		saved:     saved,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanCreate reports whether the recipe allowance permits a generation now.
func (s *Service) CanCreate() bool {
	return s.engine.CanCreateRecipe()
}

// Remaining returns the generations left in the current period.
func (s *Service) Remaining() int {
	return s.engine.RemainingRecipes()
}

// Create generates a recipe for the prompt. Returns false with no error
// when the allowance denies the request. The allowance is consumed by the
// request, not its outcome; a failed generation is not refunded.
func (s *Service) Create(ctx context.Context, prompt string) (Recipe, bool, error) {
	allowed, err := s.engine.RecordRecipe(ctx)
	if err != nil {
		return Recipe{}, false, err
	}
	if !allowed {
		return Recipe{}, false, nil
	}

	recipe, err := s.generator.GenerateRecipe(ctx, prompt)
	if err != nil {
		s.log.WarnContext(ctx, "recipe generation failed", "error", err)
		return Recipe{}, false, err
	}
	return recipe, true, nil
}

// Save stores a recipe in the saved list.
func (s *Service) Save(ctx context.Context, recipe Recipe) (Recipe, error) {
	return s.saved.Save(ctx, recipe)
}

// Saved lists the saved recipes, newest first.
func (s *Service) Saved(ctx context.Context) ([]Recipe, error) {
	return s.saved.List(ctx)
}

// Delete removes a saved recipe.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.saved.Delete(ctx, id)
}
