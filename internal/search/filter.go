package search

import (
	"strings"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

// Group is the set of matching services of one category.
type Group struct {
	Category enums.Category    `json:"category"`
	Label    string            `json:"label"`
	Services []catalog.Service `json:"services"`
}

// Result is the grouped projection of a catalog.
type Result struct {
	Groups []Group `json:"groups"`
	Total  int     `json:"total"`
}

// Filter projects the catalog through a free-text term and a category selection.
// The term is matched case-insensitively as a substring of name or description; an
// empty category set passes every category. Groups follow the catalog category order
// and empty groups are omitted.
func Filter(cat *catalog.Catalog, term string, categories []enums.Category) Result {
	needle := strings.ToLower(strings.TrimSpace(term))

	selected := make(map[enums.Category]struct{}, len(categories))
	for _, c := range categories {
		selected[c] = struct{}{}
	}

	buckets := map[enums.Category][]catalog.Service{}
	total := 0
	for _, svc := range cat.Services() {
		if len(selected) > 0 {
			if _, ok := selected[svc.Category]; !ok {
				continue
			}
		}
		if !matches(svc, needle) {
			continue
		}
		buckets[svc.Category] = append(buckets[svc.Category], svc)
		total++
	}

	groups := make([]Group, 0, len(buckets))
	for _, c := range cat.Categories() {
		services := buckets[c]
		if len(services) == 0 {
			continue
		}
		groups = append(groups, Group{Category: c, Label: c.Label(), Services: services})
	}
	return Result{Groups: groups, Total: total}
}

func matches(svc catalog.Service, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(svc.Name), needle) {
		return true
	}
	return svc.Description != "" && strings.Contains(strings.ToLower(svc.Description), needle)
}

// ParseCategories normalizes raw query values. Values may be repeated or comma
// separated; duplicates collapse. Values that name no category come back in unknown.
func ParseCategories(raw []string) (categories []enums.Category, unknown []string) {
	categories = []enums.Category{}
	seen := map[enums.Category]struct{}{}
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			c, err := enums.ParseCategory(part)
			if err != nil {
				unknown = append(unknown, part)
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			categories = append(categories, c)
		}
	}
	return categories, unknown
}
