package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Banh-Canh/cinedeck/internal/config"
	"github.com/Banh-Canh/cinedeck/internal/nav"
	"github.com/Banh-Canh/cinedeck/internal/render"
	"github.com/Banh-Canh/cinedeck/internal/utils"
	"github.com/Banh-Canh/cinedeck/pkg/catalog"
	"github.com/Banh-Canh/cinedeck/pkg/playback"
)

// Options configure the terminal browser.
type Options struct {
	Catalog       *catalog.Catalog
	Provider      playback.Provider
	Playback      playback.Options
	Start         nav.Location
	FeaturedCount int
	ImageFilter   string
	ImageQuality  int
	// CacheDir holds rendered posters. Defaults to the user cache directory.
	CacheDir string
}

type focusMode int

const (
	listFocus focusMode = iota
	searchFocus
	themeMenuFocus
	categoryMenuFocus
)

type model struct {
	catalog *catalog.Catalog
	ctrl    *nav.Controller
	results *render.Container
	player  *player
	search  textinput.Model
	thumbs  *thumbnailer

	focus            focusMode
	menuCursor       int
	suggestionCursor int
	history          []nav.Location

	cursor         int
	width          int
	height         int
	viewport       int
	viewportOffset int

	notice         string
	thumbnailCache map[string]string // Cache for rendered thumbnails
}

// player opens titles in the modal on behalf of the results container.
type player struct {
	ctx     context.Context
	modal   *playback.Modal
	lastErr error
}

func (p *player) play(titleID string) {
	p.lastErr = p.modal.Open(p.ctx, titleID)
}

// Messages
type thumbnailLoadedMsg struct {
	cacheKey  string
	thumbnail string
}

type blurExpiredMsg struct {
	token uint64
}

type playbackEndedMsg struct {
	title catalog.Title
}

// Global program reference to send messages from background goroutines
var globalProgram *tea.Program

// Browse runs the interactive browser until the user quits.
func Browse(opts Options) error {
	if opts.Catalog == nil {
		return errors.New("catalog is required")
	}
	if opts.CacheDir == "" {
		dir, err := config.GetCacheDirPath()
		if err != nil {
			return err
		}
		opts.CacheDir = dir
	}

	setupCleanupHandlers()
	go cleanupThumbnailCache(opts.CacheDir, thumbnailMaxAge)

	m := newModel(context.Background(), opts, func(t catalog.Title) {
		if globalProgram != nil {
			globalProgram.Send(playbackEndedMsg{title: t})
		}
	})
	defer func() {
		m.player.modal.Close()
		playback.CleanupProcesses()
	}()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	globalProgram = p
	defer func() { globalProgram = nil }()
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func newModel(ctx context.Context, opts Options, onEnded func(catalog.Title)) model {
	modal := playback.NewModal(opts.Catalog, opts.Provider,
		playback.WithOptions(opts.Playback),
		playback.WithLogger(utils.Logger),
		playback.WithEndedHook(onEnded))
	pl := &player{ctx: ctx, modal: modal}
	results := render.NewContainer(render.NoResults, pl.play)

	search := textinput.New()
	search.Placeholder = "Search movies..."
	search.Prompt = "󰍉 "
	search.CharLimit = 100
	search.Width = 40

	m := model{
		catalog:          opts.Catalog,
		ctrl:             nav.NewController(opts.Catalog, nav.Regions{Results: results}, nav.Options{FeaturedCount: opts.FeaturedCount}),
		results:          results,
		player:           pl,
		search:           search,
		thumbs:           newThumbnailer(opts.ImageFilter, opts.ImageQuality, opts.CacheDir),
		suggestionCursor: -1,
		width:            100,
		height:           30,
		thumbnailCache:   make(map[string]string),
	}
	m.ctrl.Load(opts.Start)
	m.search.SetValue(m.ctrl.Query())
	m.updateViewport()
	return m
}

func (m model) Init() tea.Cmd {
	return m.thumbnailCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewport()
		return m, m.thumbnailCmd()

	case thumbnailLoadedMsg:
		m.thumbnailCache[msg.cacheKey] = msg.thumbnail
		return m, nil

	case blurExpiredMsg:
		m.ctrl.ExpireBlur(msg.token)
		return m, nil

	case playbackEndedMsg:
		m.notice = fmt.Sprintf("Finished playing %s", msg.title.Name)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.player.modal.State() != playback.Closed {
			return m.handleModalKey(msg)
		}
		switch m.focus {
		case searchFocus:
			return m.handleSearchKey(msg)
		case themeMenuFocus, categoryMenuFocus:
			return m.handleMenuKey(msg)
		}
		return m.handleListKey(msg)
	}
	return m, nil
}

func (m model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.results.Len()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.notice = ""
		if m.cursor > 0 {
			m.cursor--
			m.updateViewport()
		}
		return m, m.thumbnailCmd()
	case "down", "j":
		m.notice = ""
		if m.cursor < n-1 {
			m.cursor++
			m.updateViewport()
		}
		return m, m.thumbnailCmd()
	case "g":
		if n > 0 {
			m.cursor = 0
			m.viewportOffset = 0
			m.updateViewport()
		}
		return m, m.thumbnailCmd()
	case "G":
		if n > 0 {
			m.cursor = n - 1
			m.updateViewportForBottom()
		}
		return m, m.thumbnailCmd()
	case "pgup", "left":
		if n > 0 {
			m.cursor = max(0, m.cursor-m.viewport)
			m.updateViewport()
		}
		return m, m.thumbnailCmd()
	case "pgdown", "right":
		if n > 0 {
			m.cursor = min(n-1, m.cursor+m.viewport)
			m.updateViewport()
		}
		return m, m.thumbnailCmd()
	case "enter", "p", " ":
		return m.playSelected()
	case "/":
		m.focus = searchFocus
		m.suggestionCursor = -1
		m.ctrl.Focus()
		cmd := m.search.Focus()
		return m, cmd
	case "t":
		if len(m.catalog.Themes()) > 0 {
			m.focus = themeMenuFocus
			m.menuCursor = 0
		}
	case "c":
		if len(m.catalog.Categories()) > 0 {
			m.focus = categoryMenuFocus
			m.menuCursor = 0
		}
	case "a":
		return m.navigate(nav.Location{Page: nav.ThemePage})
	case "esc":
		if m.ctrl.State().Kind == nav.SearchView {
			return m.submit("")
		}
	case "backspace", "h":
		return m.goBack()
	}
	return m, nil
}

func (m model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = listFocus
		m.search.Blur()
		return m, blurAfterGrace(m.ctrl.Blur())
	case "enter":
		m.focus = listFocus
		m.search.Blur()
		if m.ctrl.SuggestionsVisible() && m.suggestionCursor >= 0 {
			return m.selectSuggestion(m.suggestionCursor)
		}
		return m.submit(m.search.Value())
	case "down", "tab":
		if m.ctrl.SuggestionsVisible() {
			m.suggestionCursor = min(m.suggestionCursor+1, len(m.ctrl.Suggestions())-1)
		}
		return m, nil
	case "up", "shift+tab":
		if m.suggestionCursor >= 0 {
			m.suggestionCursor--
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != before {
		m.ctrl.Input(value)
		m.suggestionCursor = -1
	}
	return m, cmd
}

func (m model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.menuEntries()
	switch msg.String() {
	case "esc", "q", "backspace", "h":
		m.focus = listFocus
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(entries)-1 {
			m.menuCursor++
		}
	case "enter", "l", "right":
		if m.menuCursor >= len(entries) {
			return m, nil
		}
		entry := entries[m.menuCursor]
		loc := m.ctrl.CategoryLocation(entry)
		if m.focus == themeMenuFocus {
			loc = m.ctrl.ThemeLocation(entry)
		}
		m.focus = listFocus
		return m.navigate(loc)
	}
	return m, nil
}

// handleModalKey keeps the list behind the overlay still: only closing keys
// are honoured while a player is open.
func (m model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "x", "backspace":
		m.player.modal.Close()
		m.notice = ""
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.player.modal.State() != playback.Closed {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			x, y, w, h := m.modalBounds()
			if msg.X < x || msg.X >= x+w || msg.Y < y || msg.Y >= y+h {
				m.player.modal.Close()
			}
		}
		return m, nil
	}
	if m.focus != listFocus {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.handleListKey(tea.KeyMsg{Type: tea.KeyUp})
	case tea.MouseButtonWheelDown:
		return m.handleListKey(tea.KeyMsg{Type: tea.KeyDown})
	}
	return m, nil
}

func (m model) playSelected() (tea.Model, tea.Cmd) {
	unit, ok := m.results.At(m.cursor)
	if !ok {
		return m, nil
	}
	m.player.lastErr = nil
	if !m.results.Activate(unit.TitleID) {
		return m, nil
	}
	switch err := m.player.lastErr; {
	case err == nil:
		m.notice = ""
	case errors.Is(err, playback.ErrTitleNotFound):
		m.notice = "Sorry, the selected movie could not be found."
	case errors.Is(err, playback.ErrProviderUnavailable):
		m.notice = fmt.Sprintf("The video player is unavailable: %v", err)
	default:
		m.notice = err.Error()
	}
	if m.player.lastErr != nil {
		utils.Logger.Warn("Playback failed", zap.String("title", unit.TitleID), zap.Error(m.player.lastErr))
	}
	return m, nil
}

// submit runs a search in place. The previous location stays reachable with
// back navigation.
func (m model) submit(term string) (tea.Model, tea.Cmd) {
	prev := m.ctrl.Location()
	if _, ok := m.ctrl.Submit(term); !ok {
		return m, nil
	}
	if m.ctrl.Location() != prev {
		m.history = append(m.history, prev)
	}
	m.afterLoad()
	utils.Logger.Debug("Search submitted", zap.String("address", m.ctrl.Address()))
	return m, m.thumbnailCmd()
}

func (m model) selectSuggestion(i int) (tea.Model, tea.Cmd) {
	prev := m.ctrl.Location()
	if _, ok := m.ctrl.SelectSuggestion(i); !ok {
		return m, nil
	}
	if m.ctrl.Location() != prev {
		m.history = append(m.history, prev)
	}
	m.afterLoad()
	return m, m.thumbnailCmd()
}

// navigate loads loc as a new page, remembering where we came from.
func (m model) navigate(loc nav.Location) (tea.Model, tea.Cmd) {
	prev := m.ctrl.Location()
	if _, ok := m.ctrl.Load(loc); !ok {
		return m, nil
	}
	m.history = append(m.history, prev)
	m.afterLoad()
	utils.Logger.Debug("Navigated", zap.String("address", m.ctrl.Address()))
	return m, m.thumbnailCmd()
}

func (m model) goBack() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, tea.Quit
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.ctrl.Load(prev)
	m.afterLoad()
	return m, m.thumbnailCmd()
}

func (m *model) afterLoad() {
	m.search.SetValue(m.ctrl.Query())
	m.suggestionCursor = -1
	m.cursor = 0
	m.viewportOffset = 0
	m.notice = ""
	m.updateViewport()
}

func (m model) menuEntries() []string {
	if m.focus == categoryMenuFocus {
		return m.catalog.Categories()
	}
	return m.catalog.Themes()
}

// thumbnailCmd loads the poster of the selected title unless it is cached.
func (m model) thumbnailCmd() tea.Cmd {
	unit, ok := m.results.At(m.cursor)
	if !ok || unit.Image == "" {
		return nil
	}
	t, ok := m.catalog.Lookup(unit.TitleID)
	if !ok {
		return nil
	}
	w, h := thumbnailSize(m.rightWidth(), m.contentHeight())
	key := thumbnailKey(unit.TitleID, w, h)
	if _, ok := m.thumbnailCache[key]; ok {
		return nil
	}
	return m.thumbs.loadThumbnail(m.catalog.ImagePath(t), key, w, h)
}

func blurAfterGrace(token uint64) tea.Cmd {
	return tea.Tick(nav.BlurGrace, func(time.Time) tea.Msg {
		return blurExpiredMsg{token: token}
	})
}

func (m *model) updateViewport() {
	m.viewport = m.height - 8 // Leave space for title, borders, and help
	if m.viewport < 5 {
		m.viewport = 5
	}
	if m.cursor < m.viewportOffset {
		m.viewportOffset = m.cursor
	} else if m.cursor >= m.viewportOffset+m.viewport {
		m.viewportOffset = m.cursor - m.viewport + 1
	}
}

func (m *model) updateViewportForBottom() {
	m.viewport = m.height - 8
	if m.viewport < 5 {
		m.viewport = 5
	}
	if n := m.results.Len(); n > m.viewport {
		m.viewportOffset = n - m.viewport
	} else {
		m.viewportOffset = 0
	}
}

func setupCleanupHandlers() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		playback.CleanupProcesses()
		utils.SyncLogger() // nolint:all
		os.Exit(0)
	}()
}
