package recipes

import (
	"strings"
	"time"
	"unicode"
)

// Recipe is one generated or saved recipe.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}

// Parse splits generated recipe text into title, ingredients, and
// instructions. The generator is prompted for a fixed format but models
// drift, so headings match loosely (markdown decoration, "Directions"
// instead of "Instructions") and unrecognized leading text folds into the
// title. Only completely blank input fails.
func Parse(text string) (Recipe, error) {
	if strings.TrimSpace(text) == "" {
		return Recipe{}, ErrEmptyRecipe
	}

	var recipe Recipe
	section := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		heading := normalizeHeading(line)
		switch {
		case heading == "ingredients":
			section = "ingredients"
			continue
		case heading == "instructions" || heading == "directions" ||
			heading == "method" || heading == "steps":
			section = "instructions"
			continue
		}

		switch section {
		case "ingredients":
			recipe.Ingredients = append(recipe.Ingredients, stripBullet(line))
		case "instructions":
			recipe.Instructions = append(recipe.Instructions, stripBullet(line))
		default:
			if recipe.Title == "" {
				recipe.Title = stripTitle(line)
			}
		}
	}
	return recipe, nil
}

// normalizeHeading reduces a line to a bare lowercase word if it looks like
// a section heading, or returns "" otherwise.
func normalizeHeading(line string) string {
	cleaned := strings.Trim(line, "#*_ \t")
	cleaned = strings.TrimSuffix(cleaned, ":")
	cleaned = strings.ToLower(strings.TrimSpace(cleaned))
	if strings.ContainsAny(cleaned, " \t") {
		return ""
	}
	return cleaned
}

// stripBullet removes list decoration: "-", "*", "•", or "1." / "1)".
func stripBullet(line string) string {
	trimmed := strings.TrimLeft(line, "-*• \t")

	// Numbered steps: strip the leading digits and their separator.
	i := 0
	for i < len(trimmed) && unicode.IsDigit(rune(trimmed[i])) {
		i++
	}
	if i > 0 && i < len(trimmed) && (trimmed[i] == '.' || trimmed[i] == ')') {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSpace(trimmed)
}

func stripTitle(line string) string {
	cleaned := strings.TrimLeft(line, "# ")
	cleaned = strings.Trim(cleaned, "* ")
	for _, prefix := range []string{"Title:", "title:", "Recipe:", "recipe:"} {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
			break
		}
	}
	return cleaned
}
