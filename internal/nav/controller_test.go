package nav

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Banh-Canh/cinedeck/internal/render"
	"github.com/Banh-Canh/cinedeck/pkg/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	titles := []catalog.Title{
		{ID: "fast_x", Name: "Fast X", Theme: "Action", Type: "Movie", Year: 2023},
		{ID: "spider", Name: "Spider-Man", Theme: "Animation", Type: "Movie", Year: 2023},
		{ID: "dave", Name: "Dave and the Kill Nod", Theme: "Comedy", Type: "Meme", Year: 2023},
		{ID: "flash", Name: "The Flash", Theme: "Action", Type: "Movie", Year: 2023},
		{ID: "wick", Name: "John Wick", Theme: "Action", Type: "Movie", Year: 2023},
		{ID: "beetle", Name: "Blue Beetle", Theme: "Action", Type: "Movie", Year: 2023},
		{ID: "feelings", Name: "No Hard Feelings", Theme: "Comedy", Type: "Movie", Year: 2023},
		{ID: "office", Name: "The Office", Theme: "Comedy", Type: "Series", Year: 2005},
	}
	c, err := catalog.New(titles, []string{"Action", "Comedy", "Animation", "Drama"})
	require.NoError(t, err)
	return c
}

func newController(t *testing.T) (*Controller, *render.Container) {
	t.Helper()
	results := render.NewContainer("", nil)
	return NewController(testCatalog(t), Regions{Results: results}, Options{}), results
}

func unitIDs(c *render.Container) []string {
	var out []string
	for _, u := range c.Units() {
		out = append(out, u.TitleID)
	}
	return out
}

func TestLoadPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		kind    ViewKind
		heading string
		count   int
	}{
		{name: "home default", loc: Location{Page: HomePage}, kind: FeaturedView, heading: FeaturedHeading, count: 6},
		{name: "theme page default", loc: Location{Page: ThemePage}, kind: AllView, heading: AllHeading, count: 8},
		{name: "search", loc: Location{Search: "flash"}, kind: SearchView, heading: `Search Results for "flash"`, count: 1},
		{name: "theme beats search", loc: Location{Page: ThemePage, Theme: "Comedy", Search: "flash"}, kind: ThemeView, heading: "Comedy Movies", count: 3},
		{name: "category beats theme", loc: Location{Category: "series", Theme: "Action", Search: "x"}, kind: CategoryView, heading: "Category: series", count: 1},
		{name: "empty theme", loc: Location{Page: ThemePage, Theme: "Drama"}, kind: ThemeView, heading: "Drama Movies", count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, results := newController(t)
			state, ok := c.Load(tt.loc)
			require.True(t, ok)
			assert.Equal(t, tt.kind, state.Kind)
			assert.Equal(t, tt.heading, state.Heading)
			assert.Len(t, state.Titles, tt.count)
			assert.Equal(t, tt.count, results.Len())
			assert.Equal(t, tt.count == 0, results.Empty())
			assert.Equal(t, tt.loc, c.Location())
		})
	}
}

func TestFeaturedCountOption(t *testing.T) {
	results := render.NewContainer("", nil)
	c := NewController(testCatalog(t), Regions{Results: results}, Options{FeaturedCount: 2})
	state, _ := c.Load(Location{})
	assert.Len(t, state.Titles, 2)
}

func TestSubmitUpdatesAddressAndResults(t *testing.T) {
	c, results := newController(t)
	c.Load(Location{Page: HomePage, Category: "Movie"})

	state, ok := c.Submit("comedy")
	require.True(t, ok)
	assert.Equal(t, SearchView, state.Kind)
	assert.Equal(t, []string{"dave", "feelings", "office"}, unitIDs(results))
	assert.Equal(t, "/?search=comedy", c.Address())
	assert.Equal(t, "comedy", c.Query())

	state, _ = c.Submit("   ")
	assert.Equal(t, FeaturedView, state.Kind)
	assert.Equal(t, FeaturedHeading, state.Heading)
	assert.Len(t, state.Titles, 6)
	assert.Equal(t, "/", c.Address())
}

func TestSubmitOnThemePageDefaultsToAll(t *testing.T) {
	c, results := newController(t)
	c.Load(Location{Page: ThemePage, Theme: "Action"})

	state, _ := c.Submit("")
	assert.Equal(t, AllView, state.Kind)
	assert.Equal(t, 8, results.Len())
	assert.Equal(t, "/theme", c.Address())

	c.Submit("nothing matches this")
	assert.True(t, results.Empty())
	assert.Equal(t, "/theme?search=nothing+matches+this", c.Address())
}

func TestSuggestionsLifecycle(t *testing.T) {
	c, results := newController(t)
	c.Load(Location{})

	got := c.Input("the")
	require.Len(t, got, 3)
	assert.Equal(t, "Dave and the Kill Nod", got[0].Name)
	assert.Equal(t, "The Flash", got[1].Name)
	assert.True(t, c.SuggestionsVisible())

	// Blur hides after the grace delay.
	token := c.Blur()
	assert.True(t, c.SuggestionsVisible())
	assert.True(t, c.ExpireBlur(token))
	assert.False(t, c.SuggestionsVisible())

	// Focus brings prior suggestions back.
	c.Focus()
	assert.True(t, c.SuggestionsVisible())

	// A focus inside the grace window cancels the pending hide.
	token = c.Blur()
	c.Focus()
	assert.False(t, c.ExpireBlur(token))
	assert.True(t, c.SuggestionsVisible())

	// Selecting a suggestion fills the query and submits.
	state, ok := c.SelectSuggestion(2)
	require.True(t, ok)
	assert.Equal(t, "The Office", c.Query())
	assert.Equal(t, SearchView, state.Kind)
	assert.Equal(t, []string{"office"}, unitIDs(results))
	assert.False(t, c.SuggestionsVisible())

	_, ok = c.SelectSuggestion(0)
	assert.False(t, ok, "suggestions are cleared after submit")
}

func TestInputBlankHidesSuggestions(t *testing.T) {
	c, _ := newController(t)
	c.Load(Location{})
	c.Input("a")
	assert.True(t, c.SuggestionsVisible())
	assert.Empty(t, c.Input("  "))
	assert.False(t, c.SuggestionsVisible())
	c.Focus()
	assert.False(t, c.SuggestionsVisible())
}

func TestSuggestionsAreBounded(t *testing.T) {
	titles := make([]catalog.Title, 0, 30)
	for i := range 30 {
		titles = append(titles, catalog.Title{ID: fmt.Sprint(i), Name: fmt.Sprintf("Movie %02d", i)})
	}
	cat, err := catalog.New(titles, nil)
	require.NoError(t, err)
	c := NewController(cat, Regions{Results: render.NewContainer("", nil)}, Options{})
	c.Load(Location{})

	assert.Len(t, c.Input("movie"), catalog.SuggestLimit)
}

func TestNavigationTargets(t *testing.T) {
	c, _ := newController(t)
	assert.Equal(t, "/theme?theme=Comedy", c.ThemeLocation("Comedy").String())
	assert.Equal(t, "/?category=Movie", c.CategoryLocation("Movie").String())
}

func TestMissingRegionsAreNoOps(t *testing.T) {
	c := NewController(testCatalog(t), Regions{}, Options{})

	_, ok := c.Load(Location{Search: "x"})
	assert.False(t, ok)
	_, ok = c.Submit("x")
	assert.False(t, ok)
	assert.Nil(t, c.Input("x"))
	_, ok = c.SelectSuggestion(0)
	assert.False(t, ok)

	var nilController *Controller
	_, ok = nilController.Load(Location{})
	assert.False(t, ok)
}
