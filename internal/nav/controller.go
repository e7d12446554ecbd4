package nav

import (
	"strings"
	"time"

	"github.com/Banh-Canh/cinedeck/pkg/catalog"
)

const (
	// DefaultFeaturedCount is how many titles the home page features.
	DefaultFeaturedCount = 6
	// BlurGrace lets a click on a suggestion land before suggestions hide.
	BlurGrace = 200 * time.Millisecond

	FeaturedHeading = "Featured Movies"
	AllHeading      = "All Movies"
)

// ViewKind identifies which subset of the catalog is displayed.
type ViewKind int

const (
	FeaturedView ViewKind = iota
	AllView
	ThemeView
	CategoryView
	SearchView
)

func (k ViewKind) String() string {
	switch k {
	case FeaturedView:
		return "featured"
	case AllView:
		return "all"
	case ThemeView:
		return "theme"
	case CategoryView:
		return "category"
	case SearchView:
		return "search"
	default:
		return "unknown"
	}
}

// ViewState is what a page currently shows.
type ViewState struct {
	Kind    ViewKind
	Label   string
	Heading string
	Titles  []catalog.Title
}

// Results is the region search results are rendered into.
type Results interface {
	Render(titles []catalog.Title)
}

// Regions are the interactive parts of a page, bound once at startup.
// A nil Results means the page has no result grid: every transition is then
// a silent no-op.
type Regions struct {
	Results Results
}

// Options tunes the controller.
type Options struct {
	FeaturedCount int
}

// Controller owns the view state of one page for its lifetime.
type Controller struct {
	catalog  *catalog.Catalog
	regions  Regions
	featured int

	location    Location
	state       ViewState
	query       string
	suggestions []catalog.Title
	visible     bool
	blurToken   uint64
}

// NewController creates a controller over cat. Call Load before anything else.
func NewController(cat *catalog.Catalog, regions Regions, opts Options) *Controller {
	featured := opts.FeaturedCount
	if featured <= 0 {
		featured = DefaultFeaturedCount
	}
	return &Controller{catalog: cat, regions: regions, featured: featured}
}

// Load derives the initial view state from loc: category > theme > search >
// page default. It renders the result into the results region.
func (c *Controller) Load(loc Location) (ViewState, bool) {
	if !c.enabled() {
		return ViewState{}, false
	}
	titles := c.catalog.Titles()
	c.location = loc
	c.query = loc.Search
	c.hideSuggestions()

	switch {
	case loc.Category != "":
		c.state = ViewState{
			Kind:    CategoryView,
			Label:   loc.Category,
			Heading: CategoryHeading(loc.Category),
			Titles:  catalog.FilterByCategory(titles, loc.Category),
		}
	case loc.Theme != "":
		c.state = ViewState{
			Kind:    ThemeView,
			Label:   loc.Theme,
			Heading: ThemeHeading(loc.Theme),
			Titles:  catalog.FilterByTheme(titles, loc.Theme),
		}
	default:
		c.state = c.searchState(titles, loc.Search)
	}
	c.regions.Results.Render(c.state.Titles)
	return c.state, true
}

// Submit applies a search term in place and updates the address.
func (c *Controller) Submit(term string) (ViewState, bool) {
	if !c.enabled() {
		return ViewState{}, false
	}
	c.query = term
	c.hideSuggestions()
	c.state = c.searchState(c.catalog.Titles(), term)
	c.location = Location{Page: c.location.Page}
	if c.state.Kind == SearchView {
		c.location.Search = strings.TrimSpace(term)
	}
	c.regions.Results.Render(c.state.Titles)
	return c.state, true
}

func (c *Controller) searchState(titles []catalog.Title, term string) ViewState {
	def, defKind, defHeading := catalog.FirstN(c.featured), FeaturedView, FeaturedHeading
	if c.location.Page == ThemePage {
		def, defKind, defHeading = catalog.All, AllView, AllHeading
	}
	if isBlank(term) {
		return ViewState{Kind: defKind, Heading: defHeading, Titles: def(titles)}
	}
	return ViewState{
		Kind:    SearchView,
		Label:   term,
		Heading: SearchHeading(term),
		Titles:  catalog.FilterBySearch(titles, term, def),
	}
}

// Input recomputes suggestions as the user types.
func (c *Controller) Input(term string) []catalog.Title {
	if !c.enabled() {
		return nil
	}
	c.query = term
	c.suggestions = catalog.Suggest(c.catalog.Titles(), term)
	c.visible = len(c.suggestions) > 0
	c.blurToken++
	return c.suggestions
}

// SelectSuggestion fills the query with suggestion i and submits it.
func (c *Controller) SelectSuggestion(i int) (ViewState, bool) {
	if !c.enabled() || i < 0 || i >= len(c.suggestions) {
		return ViewState{}, false
	}
	return c.Submit(c.suggestions[i].Name)
}

// Blur schedules hiding suggestions. The caller fires ExpireBlur with the
// returned token after BlurGrace.
func (c *Controller) Blur() uint64 {
	c.blurToken++
	return c.blurToken
}

// ExpireBlur hides suggestions unless focus or input happened since the blur
// that produced token.
func (c *Controller) ExpireBlur(token uint64) bool {
	if token != c.blurToken {
		return false
	}
	c.visible = false
	return true
}

// Focus cancels a pending blur and re-shows prior suggestions.
func (c *Controller) Focus() {
	c.blurToken++
	c.visible = len(c.suggestions) > 0
}

// ThemeLocation is the full-navigation target for a theme selection.
func (c *Controller) ThemeLocation(theme string) Location {
	return Location{Page: ThemePage, Theme: theme}
}

// CategoryLocation is the full-navigation target for a category selection.
func (c *Controller) CategoryLocation(category string) Location {
	return Location{Page: HomePage, Category: category}
}

// State returns the current view state.
func (c *Controller) State() ViewState {
	return c.state
}

// Location returns the current location.
func (c *Controller) Location() Location {
	return c.location
}

// Address returns the shareable address of the current state.
func (c *Controller) Address() string {
	return c.location.String()
}

// Query returns the current search box content.
func (c *Controller) Query() string {
	return c.query
}

// Suggestions returns the last computed suggestions.
func (c *Controller) Suggestions() []catalog.Title {
	return c.suggestions
}

// SuggestionsVisible reports whether suggestions should be displayed.
func (c *Controller) SuggestionsVisible() bool {
	return c.visible
}

func (c *Controller) hideSuggestions() {
	c.suggestions = nil
	c.visible = false
	c.blurToken++
}

func (c *Controller) enabled() bool {
	return c != nil && c.catalog != nil && c.regions.Results != nil
}

func ThemeHeading(theme string) string {
	return theme + " Movies"
}

func CategoryHeading(category string) string {
	return "Category: " + category
}

func SearchHeading(term string) string {
	return `Search Results for "` + term + `"`
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
