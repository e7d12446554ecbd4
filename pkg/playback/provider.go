package playback

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Banh-Canh/cinedeck/pkg/catalog"
)

// Kind tells whether a provider renders inside a page or drives a separate player.
type Kind int

const (
	Embedded Kind = iota
	External
)

// Provider mounts a player for a video reference.
type Provider interface {
	Name() string
	Kind() Kind
	Mount(ctx context.Context, mount *Mount, ref catalog.VideoRef, opts Options) (Handle, error)
}

// Handle controls one mounted player.
type Handle interface {
	// OnEnded registers fn to run when playback reaches its end. fn runs at most
	// once, immediately if playback already ended.
	OnEnded(fn func())
	// Destroy stops the player and releases the mount point.
	Destroy() error
}

// DefaultProvider is used when no provider is configured.
const DefaultProvider = "dailymotion"

// ProviderConfig holds the settings a provider is built from.
type ProviderConfig struct {
	Name        string
	Command     []string
	URLTemplate string
}

// ProviderBuilder provides a fluent interface for creating providers
type ProviderBuilder struct {
	config ProviderConfig
}

func NewProviderBuilder() *ProviderBuilder {
	return &ProviderBuilder{
		config: ProviderConfig{
			Name:        DefaultProvider,
			Command:     DefaultCommand(),
			URLTemplate: DefaultURLTemplate,
		},
	}
}

// WithName selects the provider by name.
func (b *ProviderBuilder) WithName(name string) *ProviderBuilder {
	b.config.Name = name
	return b
}

// WithCommand sets the external player argv. Empty keeps the default.
func (b *ProviderBuilder) WithCommand(argv []string) *ProviderBuilder {
	if len(argv) > 0 {
		b.config.Command = argv
	}
	return b
}

// WithURLTemplate sets how id references expand to a URL for external players.
func (b *ProviderBuilder) WithURLTemplate(tmpl string) *ProviderBuilder {
	if tmpl != "" {
		b.config.URLTemplate = tmpl
	}
	return b
}

// Build creates the provider with the configured options
func (b *ProviderBuilder) Build() (Provider, error) {
	return NewProvider(b.config)
}

// NewProvider creates the provider named in cfg.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "youtube":
		return YouTube{}, nil
	case "", "dailymotion":
		return Dailymotion{}, nil
	case "iframe":
		return IFrame{}, nil
	case "tiktok":
		return TikTok{}, nil
	case "mpv", "external":
		return NewExternalPlayer(cfg.Command, cfg.URLTemplate)
	default:
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProvider, cfg.Name, strings.Join(ProviderNames(), ", "))
	}
}

// ProviderNames lists the names NewProvider accepts.
func ProviderNames() []string {
	names := []string{"youtube", "dailymotion", "iframe", "tiktok", "mpv", "external"}
	sort.Strings(names)
	return names
}
