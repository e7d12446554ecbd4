// Package web serves the catalog as a web page: server-rendered results, an
// in-page search with suggestions and a playback modal driven by embed markup.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Banh-Canh/cinedeck/internal/nav"
	"github.com/Banh-Canh/cinedeck/internal/render"
	"github.com/Banh-Canh/cinedeck/pkg/catalog"
	"github.com/Banh-Canh/cinedeck/pkg/playback"
)

// LocationHeader carries the shareable address of a results fragment.
const LocationHeader = "X-Cinedeck-Location"

var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type Options struct {
	Catalog       *catalog.Catalog
	Provider      playback.Provider
	Playback      playback.Options
	FeaturedCount int
	Logger        *zap.Logger
}

type Server struct {
	catalog  *catalog.Catalog
	provider playback.Provider
	opts     playback.Options
	featured int
	logger   *zap.Logger
	tpl      *template.Template
	router   chi.Router
}

// NewServer creates the HTTP handler for the catalog. The provider must be
// able to embed its player in a page.
func NewServer(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if opts.Provider == nil {
		return nil, fmt.Errorf("%w: no provider configured", playback.ErrProviderUnavailable)
	}
	if opts.Provider.Kind() != playback.Embedded {
		return nil, fmt.Errorf("%w: %s cannot be embedded in a page, set serve.provider",
			playback.ErrProviderUnavailable, opts.Provider.Name())
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		catalog:  opts.Catalog,
		provider: opts.Provider,
		opts:     opts.Playback,
		featured: opts.FeaturedCount,
		logger:   opts.Logger,
	}
	s.tpl = template.Must(template.New("page").Funcs(template.FuncMap{
		"imageURL": imageURL,
	}).Parse(pageTpl))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage(nav.HomePage))
	r.Get("/theme", s.handlePage(nav.ThemePage))
	r.Get("/index.html", redirectTo("/"))
	r.Get("/theme_page.html", redirectTo("/theme"))
	r.Get("/fragment/results", s.handleResults)
	r.Get("/api/suggest", s.handleSuggest)
	r.Get("/api/play/{id}", s.handlePlay)
	r.Get("/media/*", s.handleMedia)
	r.Handle("/health", HealthHandler())
	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Graceful shutdown failed", zap.Error(err))
		_ = srv.Close()
		return err
	}
	s.logger.Info("Server stopped")
	return nil
}

type link struct {
	Name string
	Href string
}

type resultsData struct {
	Heading string
	Nodes   []render.Node
}

type pageData struct {
	Page        string
	PagePath    string
	Query       string
	Address     string
	Themes      []link
	Categories  []link
	Results     resultsData
	Provider    string
	BlurGraceMs int64
}

// view runs a fresh controller for one page load.
func (s *Server) view(loc nav.Location) (*nav.Controller, resultsData) {
	results := render.NewContainer(render.NoResults, nil)
	ctrl := nav.NewController(s.catalog, nav.Regions{Results: results}, nav.Options{FeaturedCount: s.featured})
	state, _ := ctrl.Load(loc)
	return ctrl, resultsData{Heading: state.Heading, Nodes: results.Nodes()}
}

func (s *Server) handlePage(page nav.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc := nav.FromQuery(page, r.URL.Query())
		ctrl, results := s.view(loc)

		data := pageData{
			Page:        page.String(),
			PagePath:    page.Path(),
			Query:       ctrl.Query(),
			Address:     ctrl.Address(),
			Results:     results,
			Provider:    s.provider.Name(),
			BlurGraceMs: nav.BlurGrace.Milliseconds(),
		}
		for _, theme := range s.catalog.Themes() {
			data.Themes = append(data.Themes, link{Name: theme, Href: ctrl.ThemeLocation(theme).String()})
		}
		for _, category := range s.catalog.Categories() {
			data.Categories = append(data.Categories, link{Name: category, Href: ctrl.CategoryLocation(category).String()})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.tpl.Execute(w, data); err != nil {
			s.logger.Error("Failed to render page", zap.Error(err))
		}
	}
}

// handleResults renders the results region for an in-page search. The
// address to push into the history is returned in LocationHeader.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	page := nav.HomePage
	if r.URL.Query().Get("page") == nav.ThemePage.String() {
		page = nav.ThemePage
	}
	ctrl, results := s.view(nav.FromQuery(page, r.URL.Query()))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(LocationHeader, ctrl.Address())
	if err := s.tpl.ExecuteTemplate(w, "results", results); err != nil {
		s.logger.Error("Failed to render results", zap.Error(err))
	}
}

type suggestion struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	titles := catalog.Suggest(s.catalog.Titles(), r.URL.Query().Get("q"))
	out := make([]suggestion, 0, len(titles))
	for _, t := range titles {
		out = append(out, suggestion{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

type playResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Content playback.Content `json:"content"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, ok := s.catalog.Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Sorry, the selected movie could not be found."})
		return
	}
	content, err := playback.Embed(r.Context(), s.provider, t, s.opts)
	if err != nil {
		s.logger.Warn("Failed to embed player", zap.String("title", id), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "The video player is unavailable."})
		return
	}
	writeJSON(w, http.StatusOK, playResponse{ID: t.ID, Name: t.Name, Content: content})
}

// handleMedia serves poster images that live next to the catalog file.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	base := s.catalog.BaseDir()
	rel := path.Clean("/" + chi.URLParam(r, "*"))
	ct, ok := imageExts[strings.ToLower(path.Ext(rel))]
	if base == "" || !ok {
		http.NotFound(w, r)
		return
	}
	f, err := os.Open(filepath.Join(base, filepath.FromSlash(rel)))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=60")
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dest := target
		if q := r.URL.RawQuery; q != "" {
			dest += "?" + q
		}
		http.Redirect(w, r, dest, http.StatusMovedPermanently)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// imageURL maps a catalog image to a URL the browser can load.
func imageURL(image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	parts := strings.Split(path.Clean("/"+filepath.ToSlash(image)), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/media" + strings.Join(parts, "/")
}
