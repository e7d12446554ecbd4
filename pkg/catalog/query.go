package catalog

import (
	"slices"
	"strings"
)

// SuggestLimit caps the number of entries returned by Suggest.
const SuggestLimit = 10

// DefaultView picks what to show when a search term is empty.
type DefaultView func(titles []Title) []Title

// FirstN returns a DefaultView showing the first n titles.
func FirstN(n int) DefaultView {
	return func(titles []Title) []Title {
		k := min(max(n, 0), len(titles))
		return slices.Clone(titles[:k])
	}
}

// All is the DefaultView showing every title.
func All(titles []Title) []Title {
	return slices.Clone(titles)
}

// FilterByTheme keeps titles whose theme equals theme exactly.
func FilterByTheme(titles []Title, theme string) []Title {
	return filter(titles, func(t Title) bool {
		return t.Theme == theme
	})
}

// FilterByCategory keeps titles whose type equals category, ignoring case.
// Titles without a type never match.
func FilterByCategory(titles []Title, category string) []Title {
	category = strings.TrimSpace(category)
	if category == "" {
		return []Title{}
	}
	return filter(titles, func(t Title) bool {
		typ := strings.TrimSpace(t.Type)
		return typ != "" && strings.EqualFold(typ, category)
	})
}

// FilterBySearch keeps titles whose name, theme, type or year contains term,
// ignoring case. A blank term yields def(titles), or every title if def is nil.
func FilterBySearch(titles []Title, term string, def DefaultView) []Title {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		if def == nil {
			return All(titles)
		}
		return def(titles)
	}
	return filter(titles, func(t Title) bool {
		return contains(t.Name, needle) ||
			contains(t.Theme, needle) ||
			contains(t.Type, needle) ||
			contains(t.YearString(), needle)
	})
}

// Suggest returns up to SuggestLimit titles whose name contains term,
// sorted by name.
func Suggest(titles []Title, term string) []Title {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return []Title{}
	}
	out := filter(titles, func(t Title) bool {
		return contains(t.Name, needle)
	})
	slices.SortStableFunc(out, func(a, b Title) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if len(out) > SuggestLimit {
		out = out[:SuggestLimit]
	}
	return out
}

func contains(field, lowerNeedle string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), lowerNeedle)
}

func filter(titles []Title, keep func(Title) bool) []Title {
	out := make([]Title, 0, len(titles))
	for _, t := range titles {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
