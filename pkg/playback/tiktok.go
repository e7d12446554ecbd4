package playback

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/Banh-Canh/cinedeck/pkg/catalog"
)

const (
	tiktokVideoBase = "https://www.tiktok.com/video/"
	TikTokScript    = "https://www.tiktok.com/embed.js"
)

var tiktokTemplate = template.Must(template.New("tiktok").Parse(
	`<blockquote class="tiktok-embed" cite="{{.Cite}}" data-video-id="{{.ID}}" ` +
		`style="max-width: 605px; min-width: 325px;"><section></section></blockquote>`))

// TikTok embeds TikTok videos by numeric id through the TikTok widget script.
type TikTok struct{}

func (TikTok) Name() string { return "tiktok" }
func (TikTok) Kind() Kind   { return Embedded }

func (p TikTok) Mount(ctx context.Context, mount *Mount, ref catalog.VideoRef, _ Options) (Handle, error) {
	id, err := videoID(ref, p.Name())
	if err != nil {
		return nil, err
	}
	if strings.Trim(id, "0123456789") != "" {
		return nil, fmt.Errorf("%w: %s ids are numeric, got %q", ErrUnsupportedRef, p.Name(), id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	cite := tiktokVideoBase + id
	if err := tiktokTemplate.Execute(&buf, struct{ Cite, ID string }{cite, id}); err != nil {
		return nil, fmt.Errorf("failed to render %s player: %w", p.Name(), err)
	}
	mount.Set(Content{
		Provider: p.Name(),
		Src:      cite,
		Markup:   template.HTML(buf.String()),
		Script:   TikTokScript,
		Status:   "Embedded tiktok player",
	})
	return &embedHandle{mount: mount}, nil
}
