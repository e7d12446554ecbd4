// Package nav derives the view state of a catalog page from its address and
// keeps the address in sync with user actions.
package nav

import (
	"fmt"
	"net/url"
	"strings"
)

// Page identifies which catalog page a location points at.
type Page int

const (
	// HomePage shows featured titles by default.
	HomePage Page = iota
	// ThemePage shows the whole catalog by default.
	ThemePage
)

func (p Page) String() string {
	switch p {
	case HomePage:
		return "home"
	case ThemePage:
		return "theme"
	default:
		return "unknown"
	}
}

// Path returns the URL path of the page.
func (p Page) Path() string {
	if p == ThemePage {
		return "/theme"
	}
	return "/"
}

// Location is a navigable, shareable address.
type Location struct {
	Page     Page
	Search   string
	Theme    string
	Category string
}

// ParseLocation parses addresses such as "/?search=x", "/theme?theme=Action",
// "theme?theme=Action", "?category=movie" or "search=x". The "type" parameter
// is accepted as an alias for "category".
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.ContainsAny(raw, "/?") && strings.Contains(raw, "=") {
		raw = "?" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", raw, err)
	}

	var loc Location
	switch strings.Trim(u.Path, "/") {
	case "", "index", "index.html":
		loc.Page = HomePage
	case "theme", "theme_page", "theme_page.html":
		loc.Page = ThemePage
	default:
		return Location{}, fmt.Errorf("unknown page %q", u.Path)
	}
	return FromQuery(loc.Page, u.Query()), nil
}

// FromQuery builds a location for page from query parameters.
func FromQuery(page Page, q url.Values) Location {
	loc := Location{
		Page:     page,
		Search:   strings.TrimSpace(q.Get("search")),
		Theme:    strings.TrimSpace(q.Get("theme")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	if loc.Category == "" {
		loc.Category = strings.TrimSpace(q.Get("type"))
	}
	return loc
}

// Query encodes the location's parameters.
func (l Location) Query() url.Values {
	q := url.Values{}
	if l.Category != "" {
		q.Set("category", l.Category)
	}
	if l.Theme != "" {
		q.Set("theme", l.Theme)
	}
	if l.Search != "" {
		q.Set("search", l.Search)
	}
	return q
}

// String returns the address, e.g. "/theme?theme=Action".
func (l Location) String() string {
	path := l.Page.Path()
	if q := l.Query().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}
