package foodcatalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Source loads the full food list from a backing store.
type Source interface {
	Load(ctx context.Context) ([]Food, error)
}

// StaticSource serves a fixed in-memory list, used for tests and seed data.
type StaticSource []Food

func (s StaticSource) Load(_ context.Context) ([]Food, error) {
	foods := make([]Food, len(s))
	copy(foods, s)
	return foods, nil
}

// Catalog holds the loaded food list and answers filter queries against it.
// Safe for concurrent use; Load replaces the list wholesale.
type Catalog struct {
	source Source

	mu    sync.RWMutex
	foods []Food
}

// NewCatalog creates a catalog over the given source. Panics on nil source.
func NewCatalog(source Source) *Catalog {
	if source == nil {
		panic("foodcatalog: Source is required")
	}
	return &Catalog{source: source}
}

// Load fetches the food list from the source. Entries with an unknown
// category are rejected; entries without an ID get one assigned.
func (c *Catalog) Load(ctx context.Context) error {
	foods, err := c.source.Load(ctx)
	if err != nil {
		return errors.Join(ErrFailedToLoadCatalog, err)
	}

	for i := range foods {
		if !foods[i].Category.Valid() {
			return errors.Join(ErrFailedToLoadCatalog,
				fmt.Errorf("%w: %q for food %q", ErrInvalidCategory, foods[i].Category, foods[i].Name))
		}
		if foods[i].ID == "" {
			foods[i].ID = uuid.NewString()
		}
	}

	c.mu.Lock()
	c.foods = foods
	c.mu.Unlock()
	return nil
}

// Foods returns a copy of the full list.
func (c *Catalog) Foods() []Food {
	c.mu.RLock()
	defer c.mu.RUnlock()
	foods := make([]Food, len(c.foods))
	copy(foods, c.foods)
	return foods
}

// Search applies the filter to the current list.
func (c *Catalog) Search(f Filter) []Food {
	c.mu.RLock()
	foods := c.foods
	c.mu.RUnlock()
	return f.Apply(foods)
}
