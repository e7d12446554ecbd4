package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Banh-Canh/cinedeck/internal/nav"
	"github.com/Banh-Canh/cinedeck/pkg/catalog"
	"github.com/Banh-Canh/cinedeck/pkg/playback"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	titles := []catalog.Title{
		{ID: "fast_x", Name: "Fast X", Theme: "Action", Type: "Movie", Year: 2023, Video: "x8my5j4"},
		{ID: "flash", Name: "The Flash", Theme: "Action", Type: "Movie", Year: 2023, Video: "x8lmj7c"},
		{ID: "office", Name: "The Office", Theme: "Comedy", Type: "Series", Year: 2005, Video: "x8kqw8p"},
		{ID: "dave", Name: "Dave and the Kill Nod", Theme: "Comedy", Type: "Meme", Year: 2023, Video: "x8n1a2b"},
		{ID: "broken", Name: "Broken Link", Theme: "Drama", Type: "Movie", VideoKind: catalog.VideoURL, Video: "https://example.com/v"},
	}
	c, err := catalog.New(titles, []string{"Action", "Comedy", "Drama"})
	require.NoError(t, err)
	return c
}

func newTestModel(t *testing.T, start nav.Location) model {
	t.Helper()
	return newModel(context.Background(), Options{
		Catalog:  testCatalog(t),
		Provider: playback.Dailymotion{},
		Playback: playback.DefaultOptions(),
		Start:    start,
		CacheDir: t.TempDir(),
	}, nil)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m model, keys ...string) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(model)
	}
	return m, cmd
}

func typeText(m model, text string) model {
	for _, r := range text {
		m, _ = press(m, string(r))
	}
	return m
}

func unitIDs(m model) []string {
	var out []string
	for _, u := range m.results.Units() {
		out = append(out, u.TitleID)
	}
	return out
}

func TestStartLocation(t *testing.T) {
	m := newTestModel(t, nav.Location{Page: nav.ThemePage, Theme: "Comedy"})
	assert.Equal(t, "Comedy Movies", m.ctrl.State().Heading)
	assert.Equal(t, []string{"office", "dave"}, unitIDs(m))
	assert.Contains(t, m.View(), "Comedy Movies")

	m = newTestModel(t, nav.Location{Search: "office"})
	assert.Equal(t, "office", m.search.Value())
	assert.Equal(t, "/?search=office", m.ctrl.Address())
}

func TestCursorNavigation(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	require.Equal(t, 5, m.results.Len())

	m, _ = press(m, "j", "j")
	assert.Equal(t, 2, m.cursor)
	m, _ = press(m, "k")
	assert.Equal(t, 1, m.cursor)
	m, _ = press(m, "G")
	assert.Equal(t, 4, m.cursor)
	m, _ = press(m, "j")
	assert.Equal(t, 4, m.cursor)
	m, _ = press(m, "g")
	assert.Equal(t, 0, m.cursor)
	m, _ = press(m, "k")
	assert.Equal(t, 0, m.cursor)
}

func TestSearchSubmitAndBack(t *testing.T) {
	m := newTestModel(t, nav.Location{})

	m, _ = press(m, "/")
	assert.Equal(t, searchFocus, m.focus)
	m = typeText(m, "off")
	assert.True(t, m.ctrl.SuggestionsVisible())
	assert.Contains(t, m.View(), "Suggestions")

	m, _ = press(m, "enter")
	assert.Equal(t, listFocus, m.focus)
	assert.Equal(t, `Search Results for "off"`, m.ctrl.State().Heading)
	assert.Equal(t, "/?search=off", m.ctrl.Address())
	assert.Equal(t, []string{"office"}, unitIDs(m))
	assert.False(t, m.ctrl.SuggestionsVisible())
	require.Len(t, m.history, 1)

	m, _ = press(m, "backspace")
	assert.Equal(t, nav.FeaturedHeading, m.ctrl.State().Heading)
	assert.Equal(t, "/", m.ctrl.Address())
	assert.Empty(t, m.history)
}

func TestSearchNoResultsShowsPlaceholder(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	m, _ = press(m, "/")
	m = typeText(m, "zzz")
	m, _ = press(m, "enter")

	assert.Zero(t, m.results.Len())
	assert.Contains(t, m.View(), "No movies found matching your criteria.")
}

func TestEscClearsSearch(t *testing.T) {
	m := newTestModel(t, nav.Location{Search: "flash"})
	require.Equal(t, nav.SearchView, m.ctrl.State().Kind)

	m, _ = press(m, "esc")
	assert.Equal(t, nav.FeaturedView, m.ctrl.State().Kind)
	assert.Equal(t, "/", m.ctrl.Address())
	assert.Equal(t, "", m.search.Value())
}

func TestSelectSuggestion(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	m, _ = press(m, "/")
	m = typeText(m, "the")
	require.Len(t, m.ctrl.Suggestions(), 3)

	m, _ = press(m, "down", "down")
	assert.Equal(t, 1, m.suggestionCursor)
	m, _ = press(m, "up")
	assert.Equal(t, 0, m.suggestionCursor)
	m, _ = press(m, "tab")

	m, _ = press(m, "enter")
	assert.Equal(t, "The Flash", m.search.Value())
	assert.Equal(t, []string{"flash"}, unitIDs(m))
	assert.Equal(t, "/?search=The+Flash", m.ctrl.Address())
}

func TestBlurGraceHidesSuggestions(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	m, _ = press(m, "/")
	m = typeText(m, "the")

	m, cmd := press(m, "esc")
	require.NotNil(t, cmd)
	assert.Equal(t, listFocus, m.focus)
	assert.True(t, m.ctrl.SuggestionsVisible())

	next, _ := m.Update(cmd())
	m = next.(model)
	assert.False(t, m.ctrl.SuggestionsVisible())
}

func TestRefocusCancelsPendingBlur(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	m, _ = press(m, "/")
	m = typeText(m, "the")

	m, cmd := press(m, "esc")
	require.NotNil(t, cmd)
	m, _ = press(m, "/")

	next, _ := m.Update(cmd())
	m = next.(model)
	assert.True(t, m.ctrl.SuggestionsVisible())
}

func TestThemeMenu(t *testing.T) {
	m := newTestModel(t, nav.Location{})

	m, _ = press(m, "t")
	require.Equal(t, themeMenuFocus, m.focus)
	assert.Contains(t, m.View(), "Themes")

	m, _ = press(m, "j", "enter")
	assert.Equal(t, listFocus, m.focus)
	assert.Equal(t, "Comedy Movies", m.ctrl.State().Heading)
	assert.Equal(t, "/theme?theme=Comedy", m.ctrl.Address())

	m, _ = press(m, "h")
	assert.Equal(t, "/", m.ctrl.Address())

	m, _ = press(m, "t", "esc")
	assert.Equal(t, listFocus, m.focus)
	assert.Equal(t, "/", m.ctrl.Address())
}

func TestCategoryMenuAndAllMovies(t *testing.T) {
	m := newTestModel(t, nav.Location{})

	m, _ = press(m, "c", "j", "enter")
	assert.Equal(t, "Category: Series", m.ctrl.State().Heading)
	assert.Equal(t, "/?category=Series", m.ctrl.Address())
	assert.Equal(t, []string{"office"}, unitIDs(m))

	m, _ = press(m, "a")
	assert.Equal(t, nav.AllHeading, m.ctrl.State().Heading)
	assert.Equal(t, 5, m.results.Len())
	assert.Len(t, m.history, 2)
}

func TestGoBackWithoutHistoryQuits(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	_, cmd := press(m, "backspace")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestPlayOpensModal(t *testing.T) {
	m := newTestModel(t, nav.Location{})

	m, _ = press(m, "enter")
	snap := m.player.modal.Snapshot()
	require.Equal(t, playback.Open, snap.State)
	assert.Equal(t, "fast_x", snap.Title.ID)
	assert.True(t, snap.ScrollLocked)
	assert.Contains(t, snap.Content.Src, "https://www.dailymotion.com/embed/video/x8my5j4")

	view := m.View()
	assert.Contains(t, view, "Fast X")
	assert.Contains(t, view, "Player: dailymotion")

	// The list behind the overlay does not move.
	m, _ = press(m, "j", "G")
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, playback.Open, m.player.modal.State())

	m, _ = press(m, "esc")
	assert.Equal(t, playback.Closed, m.player.modal.State())
	assert.False(t, m.player.modal.Snapshot().ScrollLocked)
}

func TestPlayNextTitleAfterClose(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	m, _ = press(m, "p", "x", "j", "p")
	snap := m.player.modal.Snapshot()
	require.Equal(t, playback.Open, snap.State)
	assert.Equal(t, "flash", snap.Title.ID)
}

func TestPlayFailureShowsNotice(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	m, _ = press(m, "G", "enter")

	assert.Equal(t, playback.Closed, m.player.modal.State())
	assert.Contains(t, m.notice, "The video player is unavailable")
	assert.Contains(t, m.View(), "The video player is unavailable")

	m, _ = press(m, "k")
	assert.Empty(t, m.notice)
}

func TestMouseClickOutsideClosesModal(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	m, _ = press(m, "enter")
	require.Equal(t, playback.Open, m.player.modal.State())

	x, y, w, h := m.modalBounds()
	click := func(m model, cx, cy int) model {
		next, _ := m.Update(tea.MouseMsg{X: cx, Y: cy, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		return next.(model)
	}

	m = click(m, x+w/2, y+h/2)
	assert.Equal(t, playback.Open, m.player.modal.State())

	next, _ := m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m = next.(model)
	assert.Equal(t, playback.Open, m.player.modal.State())
	assert.Equal(t, 0, m.cursor)

	m = click(m, 0, 0)
	assert.Equal(t, playback.Closed, m.player.modal.State())
}

func TestPlaybackEnded(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	next, _ := m.Update(playbackEndedMsg{title: catalog.Title{ID: "fast_x", Name: "Fast X"}})
	m = next.(model)
	assert.Equal(t, "Finished playing Fast X", m.notice)
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t, nav.Location{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m = next.(model)
	assert.Equal(t, 5, m.viewport)
	assert.Equal(t, 7, m.contentHeight())

	m, _ = press(m, "G")
	assert.Equal(t, 4, m.cursor)
	assert.Equal(t, 0, m.viewportOffset)
}
