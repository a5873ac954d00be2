// Package foodcatalog provides the oxalate food database: the Food model,
// in-memory search/filter/sort over the full list, and pluggable catalog
// sources (static, YAML file, Postgres).
//
// Filtering is a pure function over the complete list. The catalog is small
// (hundreds of foods), so there is no pagination or index; every filter
// change re-applies the whole pipeline.
//
// Example:
//
//	catalog := foodcatalog.NewCatalog(foodcatalog.NewYAMLSource("foods.yaml"))
//	if err := catalog.Load(ctx); err != nil {
//		return err
//	}
//
//	results := catalog.Search(foodcatalog.Filter{
//		Query:      "spinach",
//		Categories: []foodcatalog.Category{foodcatalog.CategoryHigh, foodcatalog.CategoryVeryHigh},
//		SortBy:     foodcatalog.SortByOxalate,
//		Descending: true,
//	})
package foodcatalog
