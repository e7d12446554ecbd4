package playback

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Banh-Canh/cinedeck/pkg/catalog"
)

// Lookup finds titles by id.
type Lookup interface {
	Lookup(id string) (catalog.Title, bool)
}

// Snapshot is a consistent view of the modal.
type Snapshot struct {
	State        State
	Title        catalog.Title
	Content      Content
	ScrollLocked bool
	Provider     string
}

// Visible reports whether the overlay is shown.
func (s Snapshot) Visible() bool {
	return s.State == Open
}

// Modal shows one title at a time through a provider. It holds at most one
// active handle.
type Modal struct {
	mu       sync.Mutex
	titles   Lookup
	provider Provider
	opts     Options
	mount    *Mount
	logger   *zap.Logger
	onEnded  func(catalog.Title)

	state        State
	title        catalog.Title
	handle       Handle
	generation   uint64
	scrollLocked bool
}

type ModalOption func(*Modal)

// WithOptions sets the options passed to the provider.
func WithOptions(opts Options) ModalOption {
	return func(m *Modal) { m.opts = opts }
}

// WithLogger sets the logger used for provider failures.
func WithLogger(l *zap.Logger) ModalOption {
	return func(m *Modal) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithEndedHook registers fn to run after playback ended and the modal closed.
// fn runs on the provider's goroutine.
func WithEndedHook(fn func(catalog.Title)) ModalOption {
	return func(m *Modal) { m.onEnded = fn }
}

func NewModal(titles Lookup, provider Provider, opts ...ModalOption) *Modal {
	m := &Modal{
		titles:   titles,
		provider: provider,
		opts:     DefaultOptions(),
		mount:    NewMount(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open plays the title with id. A current player is destroyed before the new
// one is created. Unknown ids leave the modal untouched.
func (m *Modal) Open(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.titles.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrTitleNotFound, id)
	}

	m.closeLocked()
	m.state = Opening
	m.title = t
	m.mount.Clear()
	m.generation++
	gen := m.generation

	if m.provider == nil {
		m.closeLocked()
		return fmt.Errorf("%w: no provider configured", ErrProviderUnavailable)
	}
	h, err := m.provider.Mount(ctx, m.mount, t.VideoRef(), m.opts)
	if err != nil {
		m.logger.Warn("Provider failed to mount player",
			zap.String("provider", m.provider.Name()),
			zap.String("title", t.ID),
			zap.Error(err))
		m.closeLocked()
		return fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, m.provider.Name(), err)
	}

	m.handle = h
	m.state = Open
	m.scrollLocked = true
	h.OnEnded(func() { go m.ended(gen) })
	m.logger.Debug("Opened player",
		zap.String("provider", m.provider.Name()),
		zap.String("title", t.ID))
	return nil
}

// Close hides the modal and destroys the player. Closing a closed modal is a no-op.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

// Ended reports that the page-side player finished playing.
func (m *Modal) Ended() {
	m.mu.Lock()
	h := m.handle
	m.mu.Unlock()
	if e, ok := h.(interface{ Ended() }); ok {
		e.Ended()
	}
}

func (m *Modal) ended(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || m.state != Open {
		m.mu.Unlock()
		return
	}
	t := m.title
	m.closeLocked()
	hook := m.onEnded
	m.mu.Unlock()

	m.logger.Debug("Playback ended", zap.String("title", t.ID))
	if hook != nil {
		hook(t)
	}
}

func (m *Modal) closeLocked() {
	if m.state == Closed && m.handle == nil {
		return
	}
	if m.handle != nil {
		if err := m.handle.Destroy(); err != nil {
			m.logger.Warn("Failed to destroy player", zap.Error(err))
		}
		m.handle = nil
	}
	m.mount.Clear()
	m.title = catalog.Title{}
	m.state = Closed
	m.scrollLocked = false
	m.generation++
}

func (m *Modal) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Modal) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		State:        m.state,
		Title:        m.title,
		Content:      m.mount.Content(),
		ScrollLocked: m.scrollLocked,
	}
	if m.provider != nil {
		s.Provider = m.provider.Name()
	}
	return s
}

// Provider returns the configured provider.
func (m *Modal) Provider() Provider {
	return m.provider
}

// Embed mounts title into a fresh mount point and returns the resulting markup.
// The handle is released immediately: the page that receives the markup owns
// the player from then on.
func Embed(ctx context.Context, p Provider, t catalog.Title, opts Options) (Content, error) {
	if p == nil {
		return Content{}, fmt.Errorf("%w: no provider configured", ErrProviderUnavailable)
	}
	if p.Kind() != Embedded {
		return Content{}, fmt.Errorf("%w: %s cannot be embedded in a page", ErrProviderUnavailable, p.Name())
	}
	mount := NewMount()
	h, err := p.Mount(ctx, mount, t.VideoRef(), opts)
	if err != nil {
		return Content{}, fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, p.Name(), err)
	}
	c := mount.Content()
	_ = h.Destroy()
	return c, nil
}
