package foodcatalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLSource loads the food list from a YAML file:
//
//	foods:
//	  - name: Spinach
//	    group: Vegetables
//	    category: very_high
//	    oxalate_mg: 755
//	    serving_size: 1 cup cooked
type YAMLSource struct {
	path string
}

// NewYAMLSource creates a source reading from path.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

func (s *YAMLSource) Load(ctx context.Context) ([]Food, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var doc struct {
		Foods []Food `yaml:"foods"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	// Data files use human-friendly spellings like "Very High".
	for i := range doc.Foods {
		category, err := ParseCategory(string(doc.Foods[i].Category))
		if err != nil {
			return nil, fmt.Errorf("food %q: %w", doc.Foods[i].Name, err)
		}
		doc.Foods[i].Category = category
	}
	return doc.Foods, nil
}
