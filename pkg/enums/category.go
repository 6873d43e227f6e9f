package enums

import (
	"fmt"
	"strings"
)

// Category groups catalog services. The declaration order of validCategories is the
// order used when rendering grouped listings.
type Category string

const (
	CategoryAutonomos  Category = "AUTONOMOS"
	CategorySociedades Category = "SOCIEDADES"
	CategoryLaboral    Category = "LABORAL"
	CategoryTrimestres Category = "TRIMESTRES"
)

var validCategories = []Category{
	CategoryAutonomos,
	CategorySociedades,
	CategoryLaboral,
	CategoryTrimestres,
}

var categoryLabels = map[Category]string{
	CategoryAutonomos:  "Autónomos",
	CategorySociedades: "Sociedades",
	CategoryLaboral:    "Laboral",
	CategoryTrimestres: "Trimestres",
}

// spellings observed in older data sets.
var categoryAliases = map[string]Category{
	"AUTÓNOMOS": CategoryAutonomos,
	"AUTONOMO":  CategoryAutonomos,
	"AUTÓNOMO":  CategoryAutonomos,
	"SOCIEDAD":  CategorySociedades,
	"TRIMESTRE": CategoryTrimestres,
}

// Categories returns the categories in declared order.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// Label returns the display label for the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Rank returns the declared position of the category, or -1 when unknown.
func (c Category) Rank() int {
	for i, candidate := range validCategories {
		if candidate == c {
			return i
		}
	}
	return -1
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	return c.Rank() >= 0
}

// ParseCategory converts raw input into a Category, accepting legacy spellings.
func ParseCategory(value string) (Category, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	if alias, ok := categoryAliases[normalized]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("invalid category %q", value)
}
