package recipes

import "errors"

var (
	ErrAPIKeyRequired    = errors.New("recipes: API key is required")
	ErrEmptyPrompt       = errors.New("recipes: prompt is empty")
	ErrEmptyRecipe       = errors.New("recipes: generated text is empty")
	ErrGenerationFailed  = errors.New("recipes: generation failed")
	ErrRateLimitExceeded = errors.New("recipes: rate limit exceeded")
	ErrRecipeNotFound    = errors.New("recipes: recipe not found")
	ErrFailedToPersist   = errors.New("recipes: failed to persist saved recipes")
)
