package playback

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"sync"

	"github.com/Banh-Canh/cinedeck/pkg/catalog"
)

const (
	youtubeEmbedBase     = "https://www.youtube.com/embed/"
	dailymotionEmbedBase = "https://www.dailymotion.com/embed/video/"
	PlayerElementID      = "movie-player"
)

var iframeTemplate = template.Must(template.New("iframe").Parse(
	`<iframe id="{{.ID}}" src="{{.Src}}" width="{{.Width}}" height="{{.Height}}" frameborder="0" ` +
		`allow="autoplay; fullscreen; encrypted-media; picture-in-picture" allowfullscreen></iframe>`))

type iframeData struct {
	ID     string
	Src    string
	Width  string
	Height string
}

// YouTube embeds YouTube videos by id.
type YouTube struct{}

func (YouTube) Name() string { return "youtube" }
func (YouTube) Kind() Kind   { return Embedded }

func (p YouTube) Mount(ctx context.Context, mount *Mount, ref catalog.VideoRef, opts Options) (Handle, error) {
	id, err := videoID(ref, p.Name())
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("autoplay", boolParam(opts.Autoplay))
	params.Set("controls", boolParam(opts.Controls))
	params.Set("modestbranding", "1")
	params.Set("rel", "0")
	params.Set("showinfo", "0")
	params.Set("fs", "1")
	params.Set("iv_load_policy", "3")
	params.Set("enablejsapi", "1")
	return mountIFrame(ctx, mount, p.Name(), youtubeEmbedBase+url.PathEscape(id)+"?"+params.Encode(), opts)
}

// Dailymotion embeds Dailymotion videos by id.
type Dailymotion struct{}

func (Dailymotion) Name() string { return "dailymotion" }
func (Dailymotion) Kind() Kind   { return Embedded }

func (p Dailymotion) Mount(ctx context.Context, mount *Mount, ref catalog.VideoRef, opts Options) (Handle, error) {
	id, err := videoID(ref, p.Name())
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("autoplay", boolParam(opts.Autoplay))
	params.Set("controls", boolParam(opts.Controls))
	params.Set("ui-start-screen-info", "0")
	return mountIFrame(ctx, mount, p.Name(), dailymotionEmbedBase+url.PathEscape(id)+"?"+params.Encode(), opts)
}

// IFrame embeds url references as-is.
type IFrame struct{}

func (IFrame) Name() string { return "iframe" }
func (IFrame) Kind() Kind   { return Embedded }

func (p IFrame) Mount(ctx context.Context, mount *Mount, ref catalog.VideoRef, opts Options) (Handle, error) {
	if ref.Kind != catalog.VideoURL {
		return nil, fmt.Errorf("%w: %s needs a url reference, got %s", ErrUnsupportedRef, p.Name(), ref)
	}
	u, err := url.Parse(strings.TrimSpace(ref.Value))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %s: invalid url %q", ErrUnsupportedRef, p.Name(), ref.Value)
	}
	return mountIFrame(ctx, mount, p.Name(), u.String(), opts)
}

func videoID(ref catalog.VideoRef, provider string) (string, error) {
	id := strings.TrimSpace(ref.Value)
	if ref.Kind != catalog.VideoID || id == "" {
		return "", fmt.Errorf("%w: %s needs a video id, got %s", ErrUnsupportedRef, provider, ref)
	}
	return id, nil
}

func mountIFrame(ctx context.Context, mount *Mount, provider, src string, opts Options) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err := iframeTemplate.Execute(&buf, iframeData{
		ID:     PlayerElementID,
		Src:    src,
		Width:  opts.Width,
		Height: opts.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render %s player: %w", provider, err)
	}
	mount.Set(Content{
		Provider: provider,
		Src:      src,
		Markup:   template.HTML(buf.String()),
		Status:   "Embedded " + provider + " player",
	})
	return &embedHandle{mount: mount}, nil
}

// embedHandle belongs to players living in a page. The page reports their end,
// so OnEnded only fires through Ended.
type embedHandle struct {
	mu        sync.Mutex
	mount     *Mount
	ended     bool
	destroyed bool
	onEnded   func()
}

func (h *embedHandle) OnEnded(fn func()) {
	h.mu.Lock()
	if h.ended || h.destroyed {
		fired := h.ended && !h.destroyed
		h.mu.Unlock()
		if fired && fn != nil {
			fn()
		}
		return
	}
	h.onEnded = fn
	h.mu.Unlock()
}

// Ended marks playback as finished, as reported by the page.
func (h *embedHandle) Ended() {
	h.mu.Lock()
	if h.ended || h.destroyed {
		h.mu.Unlock()
		return
	}
	h.ended = true
	fn := h.onEnded
	h.onEnded = nil
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (h *embedHandle) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return nil
	}
	h.destroyed = true
	h.onEnded = nil
	h.mount.Clear()
	return nil
}
