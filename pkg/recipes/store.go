package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/oxalabs/oxakit/pkg/kv"
)

// DefaultStorageKey is where the saved-recipe list is persisted.
const DefaultStorageKey = "oxakit:saved_recipes"

// SavedStore keeps the user's saved recipes as a JSON list in the
// key-value store, newest first.
type SavedStore struct {
	store kv.Store
	key   string
	now   func() time.Time
}

// SavedStoreOption configures a SavedStore.
type SavedStoreOption func(*SavedStore)

// WithStorageKey overrides the persistence key.
func WithStorageKey(key string) SavedStoreOption {
	return func(s *SavedStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) SavedStoreOption {
	return func(s *SavedStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSavedStore creates a saved-recipe store. Panics on nil kv store.
func NewSavedStore(store kv.Store, opts ...SavedStoreOption) *SavedStore {
	if store == nil {
		panic("recipes: kv.Store is required")
	}

	s := &SavedStore{store: store, key: DefaultStorageKey, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save prepends the recipe to the saved list, assigning an ID and creation
// time when missing.
func (s *SavedStore) Save(ctx context.Context, recipe Recipe) (Recipe, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = s.now()
	}

	saved, err := s.List(ctx)
	if err != nil {
		return Recipe{}, err
	}

	updated := append([]Recipe{recipe}, saved...)
	if err := s.persist(ctx, updated); err != nil {
		return Recipe{}, err
	}
	return recipe, nil
}

// List returns the saved recipes, newest first. A missing or corrupt list
// reads as empty.
func (s *SavedStore) List(ctx context.Context) ([]Recipe, error) {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrFailedToPersist, err)
	}

	var saved []Recipe
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return nil, nil
	}
	return saved, nil
}

// Get returns one saved recipe by ID.
func (s *SavedStore) Get(ctx context.Context, id string) (Recipe, error) {
	saved, err := s.List(ctx)
	if err != nil {
		return Recipe{}, err
	}
	for _, recipe := range saved {
		if recipe.ID == id {
			return recipe, nil
		}
	}
	return Recipe{}, ErrRecipeNotFound
}

// Delete removes one saved recipe by ID.
func (s *SavedStore) Delete(ctx context.Context, id string) error {
	saved, err := s.List(ctx)
	if err != nil {
		return err
	}

	updated := saved[:0]
	found := false
	for _, recipe := range saved {
		if recipe.ID == id {
			found = true
			continue
		}
		updated = append(updated, recipe)
	}
	if !found {
		return ErrRecipeNotFound
	}
	return s.persist(ctx, updated)
}

func (s *SavedStore) persist(ctx context.Context, saved []Recipe) error {
	raw, err := json.Marshal(saved)
	if err != nil {
		return errors.Join(ErrFailedToPersist, err)
	}
	if err := s.store.Set(ctx, s.key, string(raw)); err != nil {
		return errors.Join(ErrFailedToPersist, err)
	}
	return nil
}
