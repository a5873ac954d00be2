package foodcatalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalabs/oxakit/pkg/foodcatalog"
)

func testFoods() []foodcatalog.Food {
	return []foodcatalog.Food{
		{ID: "1", Name: "Spinach", Group: "Vegetables", Category: foodcatalog.CategoryVeryHigh, OxalatePerServing: 755},
		{ID: "2", Name: "Almonds", Group: "Nuts", Category: foodcatalog.CategoryVeryHigh, OxalatePerServing: 122},
		{ID: "3", Name: "Banana", Group: "Fruits", Category: foodcatalog.CategoryLow, OxalatePerServing: 3},
		{ID: "4", Name: "Beetroot", Group: "Vegetables", Category: foodcatalog.CategoryHigh, OxalatePerServing: 76},
		{ID: "5", Name: "White Rice", Group: "Grains", Category: foodcatalog.CategoryLow, OxalatePerServing: 4},
		{ID: "6", Name: "Potato", Group: "Vegetables", Category: foodcatalog.CategoryMedium, OxalatePerServing: 26},
	}
}

func names(foods []foodcatalog.Food) []string {
	out := make([]string, len(foods))
	for i, f := range foods {
		out[i] = f.Name
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	t.Parallel()

	t.Run("empty filter keeps everything sorted by name", func(t *testing.T) {
		t.Parallel()

		result := foodcatalog.Filter{}.Apply(testFoods())
		assert.Equal(t, []string{"Almonds", "Banana", "Beetroot", "Potato", "Spinach", "White Rice"}, names(result))
	})

	t.Run("query matches name case-insensitively", func(t *testing.T) {
		t.Parallel()

		result := foodcatalog.Filter{Query: "sPiN"}.Apply(testFoods())
		require.Len(t, result, 1)
		assert.Equal(t, "Spinach", result[0].Name)
	})

	t.Run("query matches group too", func(t *testing.T) {
		t.Parallel()

		result := foodcatalog.Filter{Query: "vegetab"}.Apply(testFoods())
		assert.Equal(t, []string{"Beetroot", "Potato", "Spinach"}, names(result))
	})

	t.Run("query uses unicode case folding", func(t *testing.T) {
		t.Parallel()

		foods := []foodcatalog.Food{
			{Name: "Épinards à la crème", Category: foodcatalog.CategoryVeryHigh},
			{Name: "Müsli", Category: foodcatalog.CategoryMedium},
		}

		result := foodcatalog.Filter{Query: "épinards"}.Apply(foods)
		require.Len(t, result, 1)
		assert.Equal(t, "Épinards à la crème", result[0].Name)

		result = foodcatalog.Filter{Query: "MÜSLI"}.Apply(foods)
		require.Len(t, result, 1)
	})

	t.Run("category set membership", func(t *testing.T) {
		t.Parallel()

		result := foodcatalog.Filter{
			Categories: []foodcatalog.Category{foodcatalog.CategoryHigh, foodcatalog.CategoryVeryHigh},
		}.Apply(testFoods())
		assert.Equal(t, []string{"Almonds", "Beetroot", "Spinach"}, names(result))
	})

	t.Run("query and categories combine", func(t *testing.T) {
		t.Parallel()

		result := foodcatalog.Filter{
			Query:      "vegetables",
			Categories: []foodcatalog.Category{foodcatalog.CategoryVeryHigh},
		}.Apply(testFoods())
		assert.Equal(t, []string{"Spinach"}, names(result))
	})

	t.Run("sort by oxalate", func(t *testing.T) {
		t.Parallel()

		result := foodcatalog.Filter{SortBy: foodcatalog.SortByOxalate}.Apply(testFoods())
		assert.Equal(t, []string{"Banana", "White Rice", "Potato", "Beetroot", "Almonds", "Spinach"}, names(result))

		result = foodcatalog.Filter{SortBy: foodcatalog.SortByOxalate, Descending: true}.Apply(testFoods())
		assert.Equal(t, "Spinach", result[0].Name)
		assert.Equal(t, "Banana", result[len(result)-1].Name)
	})

	t.Run("sort by category uses the fixed ordinal order", func(t *testing.T) {
		t.Parallel()

		result := foodcatalog.Filter{SortBy: foodcatalog.SortByCategory}.Apply(testFoods())
		assert.Equal(t, []string{"Banana", "White Rice", "Potato", "Beetroot", "Almonds", "Spinach"}, names(result))
	})

	t.Run("ties break on name within a sort key", func(t *testing.T) {
		t.Parallel()

		foods := []foodcatalog.Food{
			{Name: "Walnut", Category: foodcatalog.CategoryMedium, OxalatePerServing: 31},
			{Name: "Carrot", Category: foodcatalog.CategoryMedium, OxalatePerServing: 31},
		}
		result := foodcatalog.Filter{SortBy: foodcatalog.SortByOxalate}.Apply(foods)
		assert.Equal(t, []string{"Carrot", "Walnut"}, names(result))
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		t.Parallel()

		foods := testFoods()
		_ = foodcatalog.Filter{SortBy: foodcatalog.SortByOxalate, Descending: true}.Apply(foods)
		assert.Equal(t, names(testFoods()), names(foods))
	})

	t.Run("no matches returns empty, not nil panic", func(t *testing.T) {
		t.Parallel()

		result := foodcatalog.Filter{Query: "pizza"}.Apply(testFoods())
		assert.Empty(t, result)
	})
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    foodcatalog.Category
		wantErr bool
	}{
		{"low", foodcatalog.CategoryLow, false},
		{"Medium", foodcatalog.CategoryMedium, false},
		{"HIGH", foodcatalog.CategoryHigh, false},
		{"very_high", foodcatalog.CategoryVeryHigh, false},
		{"Very High", foodcatalog.CategoryVeryHigh, false},
		{"very-high", foodcatalog.CategoryVeryHigh, false},
		{"veryhigh", foodcatalog.CategoryVeryHigh, false},
		{"  low  ", foodcatalog.CategoryLow, false},
		{"extreme", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := foodcatalog.ParseCategory(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, foodcatalog.ErrInvalidCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_Ordering(t *testing.T) {
	t.Parallel()

	assert.Less(t, foodcatalog.CategoryLow.Rank(), foodcatalog.CategoryMedium.Rank())
	assert.Less(t, foodcatalog.CategoryMedium.Rank(), foodcatalog.CategoryHigh.Rank())
	assert.Less(t, foodcatalog.CategoryHigh.Rank(), foodcatalog.CategoryVeryHigh.Rank())
	assert.Greater(t, foodcatalog.Category("mystery").Rank(), foodcatalog.CategoryVeryHigh.Rank())

	assert.Equal(t, "Very High", foodcatalog.CategoryVeryHigh.String())
}
