package foodcatalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the sort column.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByOxalate  SortKey = "oxalate"
	SortByCategory SortKey = "category"
)

// Filter is one filter state of the catalog screen: free-text query,
// selected category bands, and sort order.
type Filter struct {
	// Query matches case-insensitively against food name and group
	// substrings. Empty matches everything.
	Query string

	// Categories keeps only foods whose band is in the set. Empty keeps
	// all bands.
	Categories []Category

	SortBy     SortKey
	Descending bool
}

// Apply returns the filtered and sorted view of foods. The input slice is
// never mutated; ties within a sort key fall back to collated name order so
// the view is stable across re-renders.
func (f Filter) Apply(foods []Food) []Food {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(f.Query))

	selected := make(map[Category]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		selected[c] = struct{}{}
	}

	result := make([]Food, 0, len(foods))
	for _, food := range foods {
		if len(selected) > 0 {
			if _, ok := selected[food.Category]; !ok {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(fold.String(food.Name), query) &&
			!strings.Contains(fold.String(food.Group), query) {
			continue
		}
		result = append(result, food)
	}

	names := collate.New(language.English, collate.IgnoreCase)
	byName := func(a, b Food) int { return names.CompareString(a.Name, b.Name) }

	compare := byName
	switch f.SortBy {
	case SortByOxalate:
		compare = func(a, b Food) int {
			if c := cmp.Compare(a.OxalatePerServing, b.OxalatePerServing); c != 0 {
				return c
			}
			return byName(a, b)
		}
	case SortByCategory:
		compare = func(a, b Food) int {
			if c := cmp.Compare(a.Category.Rank(), b.Category.Rank()); c != 0 {
				return c
			}
			return byName(a, b)
		}
	}

	slices.SortStableFunc(result, func(a, b Food) int {
		if f.Descending {
			return -compare(a, b)
		}
		return compare(a, b)
	})
	return result
}
