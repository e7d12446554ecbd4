package ui

import (
	"fmt"
	"hash/fnv"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blacktop/go-termimg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/Banh-Canh/cinedeck/internal/utils"
)

const (
	// thumbnailMaxAge is how long rendered posters stay in the cache.
	thumbnailMaxAge = 48 * time.Hour

	thumbMaxWidth  = 40
	thumbMinWidth  = 20
	thumbMaxHeight = 15
	thumbMinHeight = 8
)

// Shared HTTP client for remote posters
var imageDownloadClient = &http.Client{
	Timeout: 8 * time.Second,
	Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       60 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// thumbnailer turns posters into half-block text, caching both the scaled
// image and the rendered output on disk.
type thumbnailer struct {
	filter   resize.InterpolationFunction
	quality  int
	cacheDir string
}

func newThumbnailer(filter string, quality int, cacheDir string) *thumbnailer {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &thumbnailer{filter: parseFilter(filter), quality: quality, cacheDir: cacheDir}
}

// parseFilter maps the image_filter setting to a resampling function.
func parseFilter(name string) resize.InterpolationFunction {
	switch strings.ToLower(name) {
	case "nearest":
		return resize.NearestNeighbor
	case "bilinear", "triangle":
		return resize.Bilinear
	case "bicubic", "catmull-rom":
		return resize.Bicubic
	case "lanczos2":
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

// thumbnailSize picks the poster box for a details panel of the given size.
func thumbnailSize(panelWidth, panelHeight int) (int, int) {
	w := clamp(panelWidth-4, thumbMinWidth, thumbMaxWidth)
	h := clamp(((panelHeight-2)*9)/20, thumbMinHeight, thumbMaxHeight)
	return w, h
}

func thumbnailKey(titleID string, width, height int) string {
	return fmt.Sprintf("%s_%dx%d", titleID, width, height)
}

// loadThumbnail renders src in the background and reports the result as a
// thumbnailLoadedMsg.
func (t *thumbnailer) loadThumbnail(src, key string, width, height int) tea.Cmd {
	return func() tea.Msg {
		rendered, err := t.render(src, key, width, height)
		if err != nil {
			utils.Logger.Debug("Failed to render poster", zap.String("src", src), zap.Error(err))
			return thumbnailLoadedMsg{cacheKey: key}
		}
		return thumbnailLoadedMsg{cacheKey: key, thumbnail: rendered}
	}
}

func (t *thumbnailer) render(src, key string, width, height int) (string, error) {
	if src == "" {
		return "", fmt.Errorf("no poster")
	}
	if err := os.MkdirAll(t.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail cache: %w", err)
	}
	name := safeName(key)
	cacheFile := filepath.Join(t.cacheDir, name+".txt")
	if cached, err := os.ReadFile(cacheFile); err == nil {
		return string(cached), nil
	}

	processed := filepath.Join(t.cacheDir, name+".jpg")
	if _, err := os.Stat(processed); os.IsNotExist(err) {
		if err := t.process(src, processed, width, height); err != nil {
			return "", fmt.Errorf("failed to process image: %w", err)
		}
	}

	img, err := termimg.Open(processed)
	if err != nil {
		os.Remove(processed) // nolint:all
		return "", fmt.Errorf("failed to open processed image: %w", err)
	}
	rendered, err := img.Width(width).Height(height).Protocol(termimg.Halfblocks).Render()
	if err != nil {
		return "", fmt.Errorf("failed to render image: %w", err)
	}
	lines := strings.Split(rendered, "\n")
	if len(lines) > height+2 {
		rendered = strings.Join(lines[:height], "\n")
	}

	os.WriteFile(cacheFile, []byte(rendered), 0o644) // nolint:all
	return rendered, nil
}

// process scales the poster at src to fit a width x height cell box and writes
// it as JPEG to out.
func (t *thumbnailer) process(src, out string, width, height int) error {
	r, err := openPoster(src)
	if err != nil {
		return err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	origWidth, origHeight := bounds.Dx(), bounds.Dy()
	// A cell is roughly 9x18 pixels once drawn with half blocks.
	targetWidth, targetHeight := fitDimensions(origWidth, origHeight, width*9, height*18)

	resized := img
	if targetWidth != origWidth || targetHeight != origHeight {
		filter := t.filter
		if float64(targetWidth)/float64(origWidth) >= 0.5 && float64(targetHeight)/float64(origHeight) >= 0.5 {
			filter = resize.Bilinear
		}
		resized = resize.Resize(uint(targetWidth), uint(targetHeight), img, filter)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	return jpeg.Encode(f, resized, &jpeg.Options{Quality: t.quality})
}

func openPoster(src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open poster: %w", err)
		}
		return f, nil
	}
	resp, err := imageDownloadClient.Get(src)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("server returned HTTP %d for image", resp.StatusCode)
	}
	return resp.Body, nil
}

// fitDimensions scales orig down to fit max while preserving aspect ratio.
func fitDimensions(origWidth, origHeight, maxWidth, maxHeight int) (int, int) {
	if origWidth <= maxWidth && origHeight <= maxHeight {
		return origWidth, origHeight
	}
	ratio := float64(maxWidth) / float64(origWidth)
	if hr := float64(maxHeight) / float64(origHeight); hr < ratio {
		ratio = hr
	}
	return max(1, int(float64(origWidth)*ratio)), max(1, int(float64(origHeight)*ratio))
}

// cleanupThumbnailCache removes cache files older than maxAge.
func cleanupThumbnailCache(dir string, maxAge time.Duration) (int, uint64) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}
	cutoff := time.Now().Add(-maxAge)
	var removed int
	var freed uint64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(dir, entry.Name())) == nil {
			removed++
			freed += uint64(info.Size())
		}
	}
	if removed > 0 {
		utils.Logger.Debug("Cleaned thumbnail cache",
			zap.Int("files", removed),
			zap.String("freed", humanize.Bytes(freed)))
	}
	return removed, freed
}

// safeName turns a cache key into a file name. The hash keeps keys that only
// differ in replaced characters apart.
func safeName(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s)) // nolint:all
	return fmt.Sprintf("%s-%08x", strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s), h.Sum32())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
