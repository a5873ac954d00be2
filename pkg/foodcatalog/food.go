package foodcatalog

import (
	"fmt"
	"strings"
)

// Category is the oxalate-content band of a food. Categories order
// Low < Medium < High < Very High.
type Category string

const (
	CategoryLow      Category = "low"
	CategoryMedium   Category = "medium"
	CategoryHigh     Category = "high"
	CategoryVeryHigh Category = "very_high"
)

var categoryRanks = map[Category]int{
	CategoryLow:      0,
	CategoryMedium:   1,
	CategoryHigh:     2,
	CategoryVeryHigh: 3,
}

// Rank returns the category's position in the fixed ordinal order. Unknown
// categories sort after everything else.
func (c Category) Rank() int {
	if rank, ok := categoryRanks[c]; ok {
		return rank
	}
	return len(categoryRanks)
}

// Valid reports whether c is one of the four known bands.
func (c Category) Valid() bool {
	_, ok := categoryRanks[c]
	return ok
}

// String returns the display form, e.g. "Very High".
func (c Category) String() string {
	switch c {
	case CategoryLow:
		return "Low"
	case CategoryMedium:
		return "Medium"
	case CategoryHigh:
		return "High"
	case CategoryVeryHigh:
		return "Very High"
	default:
		return string(c)
	}
}

// ParseCategory normalizes user or data-file input ("Very High", "very-high",
// "VERYHIGH") into a Category.
func ParseCategory(s string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	switch Category(normalized) {
	case CategoryLow:
		return CategoryLow, nil
	case CategoryMedium:
		return CategoryMedium, nil
	case CategoryHigh:
		return CategoryHigh, nil
	case CategoryVeryHigh:
		return CategoryVeryHigh, nil
	case "veryhigh":
		return CategoryVeryHigh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// Food is one entry of the oxalate database.
type Food struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Group             string   `json:"group" yaml:"group"`
	Category          Category `json:"category" yaml:"category"`
	OxalatePerServing float64  `json:"oxalate_mg" yaml:"oxalate_mg"`
	ServingSize       string   `json:"serving_size" yaml:"serving_size"`
}
