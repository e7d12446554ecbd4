package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Banh-Canh/cinedeck/pkg/catalog"
	"github.com/Banh-Canh/cinedeck/pkg/playback"
)

const testCatalogYAML = `
themes: [Action, Comedy, Drama]
titles:
  - id: fast_x
    name: Fast X
    theme: Action
    type: Movie
    year: 2023
    image: images/fastx.jpg
    video: x8my5j4
  - id: office
    name: The Office
    theme: Comedy
    type: Series
    year: 2005
    video: x8kqw8p
  - id: broken
    name: Broken Link
    theme: Drama
    type: Movie
    video_kind: url
    video: https://example.com/v
`

func newTestServer(t *testing.T, provider playback.Provider) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "fastx.jpg"), []byte{0xFF, 0xD8, 0xFF, 0xDB}, 0o644))

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	if provider == nil {
		provider = playback.Dailymotion{}
	}
	srv, err := NewServer(Options{Catalog: cat, Provider: provider, Playback: playback.DefaultOptions()})
	require.NoError(t, err)
	return srv, dir
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
	return rr
}

func TestHealthHandler_OK(t *testing.T) {
	rr := get(t, HealthHandler(), "/health")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestNewServerRejectsExternalProvider(t *testing.T) {
	cat, err := catalog.New([]catalog.Title{{ID: "a", Name: "A"}}, nil)
	require.NoError(t, err)
	ext, err := playback.NewExternalPlayer(nil, "")
	require.NoError(t, err)

	_, err = NewServer(Options{Catalog: cat, Provider: ext})
	assert.ErrorIs(t, err, playback.ErrProviderUnavailable)

	_, err = NewServer(Options{Provider: playback.YouTube{}})
	assert.Error(t, err)
}

func TestHomePage(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rr := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.Contains(t, body, "Featured Movies")
	assert.Contains(t, body, `data-title-id="fast_x"`)
	assert.Contains(t, body, `src="/media/images/fastx.jpg"`)
	assert.Contains(t, body, `href="/theme?theme=Comedy"`)
	assert.Contains(t, body, `href="/?category=Series"`)
	assert.Contains(t, body, `data-provider="dailymotion"`)
	assert.Contains(t, body, `data-blur-grace="200"`)
}

func TestPageQueryPrecedence(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := get(t, srv, "/theme?theme=Comedy&search=fast").Body.String()
	assert.Contains(t, body, "Comedy Movies")
	assert.Contains(t, body, `data-title-id="office"`)
	assert.NotContains(t, body, `data-title-id="fast_x"`)

	body = get(t, srv, "/?type=movie&theme=Comedy").Body.String()
	assert.Contains(t, body, "Category: movie")
	assert.Contains(t, body, `data-title-id="fast_x"`)
	assert.NotContains(t, body, `data-title-id="office"`)

	body = get(t, srv, "/theme").Body.String()
	assert.Contains(t, body, "All Movies")
	assert.Equal(t, 3, strings.Count(body, `class="movie-card"`))
}

func TestSearchEscapesTerm(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := get(t, srv, `/?search=%3Cscript%3Ex`).Body.String()
	assert.NotContains(t, body, "<script>x")
	assert.Contains(t, body, "No movies found matching your criteria.")
}

func TestResultsFragment(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := get(t, srv, "/fragment/results?page=theme&search=office")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/theme?search=office", rr.Header().Get(LocationHeader))
	body := rr.Body.String()
	assert.Contains(t, body, `Search Results for &#34;office&#34;`)
	assert.Contains(t, body, `data-title-id="office"`)
	assert.NotContains(t, body, "<html")

	rr = get(t, srv, "/fragment/results?search=zzz")
	assert.Equal(t, "/?search=zzz", rr.Header().Get(LocationHeader))
	assert.Equal(t, 1, strings.Count(rr.Body.String(), "No movies found matching your criteria."))

	rr = get(t, srv, "/fragment/results")
	assert.Equal(t, "/", rr.Header().Get(LocationHeader))
	assert.Contains(t, rr.Body.String(), "Featured Movies")
}

func TestSuggest(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := get(t, srv, "/api/suggest?q=o")
	require.Equal(t, http.StatusOK, rr.Code)
	var got []suggestion
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, []suggestion{{ID: "broken", Name: "Broken Link"}, {ID: "office", Name: "The Office"}}, got)

	rr = get(t, srv, "/api/suggest?q=")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestPlay(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := get(t, srv, "/api/play/fast_x")
	require.Equal(t, http.StatusOK, rr.Code)
	var got playResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Fast X", got.Name)
	assert.Equal(t, "dailymotion", got.Content.Provider)
	assert.True(t, strings.HasPrefix(got.Content.Src, "https://www.dailymotion.com/embed/video/x8my5j4"))
	assert.Contains(t, string(got.Content.Markup), "<iframe")

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/play/nope").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/api/play/broken").Code)
}

func TestMedia(t *testing.T) {
	srv, dir := newTestServer(t, nil)

	rr := get(t, srv, "/media/images/fastx.jpg")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=60", rr.Header().Get("Cache-Control"))

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/media/catalog.yaml").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/media/images/missing.png").Code)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "outside.png"), []byte("x"), 0o644))
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/media/../outside.png").Code)
}

func TestLegacyPathsRedirect(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := get(t, srv, "/theme_page.html?theme=Action")
	assert.Equal(t, http.StatusMovedPermanently, rr.Code)
	assert.Equal(t, "/theme?theme=Action", rr.Header().Get("Location"))

	rr = get(t, srv, "/index.html")
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "", imageURL(""))
	assert.Equal(t, "https://img.example.com/a.jpg", imageURL("https://img.example.com/a.jpg"))
	assert.Equal(t, "/media/movie%20images/a.jpg", imageURL("movie images/a.jpg"))
	assert.Equal(t, "/media/a.jpg", imageURL("../a.jpg"))
}
