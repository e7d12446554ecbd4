package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrCatalogMissing is returned when there is no catalog data to load.
	ErrCatalogMissing = errors.New("catalog data is missing")
	// ErrCatalogMalformed is returned when catalog data cannot be used.
	ErrCatalogMalformed = errors.New("catalog data is malformed")
)

// Catalog is an immutable, ordered list of titles plus the theme set used
// for navigation. It is safe for concurrent use.
type Catalog struct {
	titles     []Title
	themes     []string
	categories []string
	byID       map[string]int
	warnings   []string
	baseDir    string
}

// Load reads a catalog from a YAML (.yaml, .yml) or JSON (.json) file.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no catalog path configured", ErrCatalogMissing)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogMissing, path)
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrCatalogMissing, path)
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrCatalogMalformed, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrCatalogMalformed, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported catalog format %q", ErrCatalogMalformed, ext)
	}

	c, err := build(f)
	if err != nil {
		return nil, err
	}
	c.baseDir = filepath.Dir(path)
	return c, nil
}

// New builds a catalog from in-memory values with the same validation as Load.
func New(titles []Title, themes []string) (*Catalog, error) {
	return build(file{Titles: titles, Themes: themes})
}

func build(f file) (*Catalog, error) {
	if len(f.Titles) == 0 {
		return nil, fmt.Errorf("%w: no titles", ErrCatalogMissing)
	}

	defaultKind, err := ParseVideoKind(string(f.VideoKind))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogMalformed, err)
	}
	if defaultKind == "" {
		defaultKind = VideoID
	}

	c := &Catalog{
		titles: make([]Title, 0, len(f.Titles)),
		byID:   make(map[string]int, len(f.Titles)),
	}
	for i, t := range f.Titles {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("%w: title #%d has no id", ErrCatalogMalformed, i+1)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate title id %q", ErrCatalogMalformed, t.ID)
		}
		kind, err := ParseVideoKind(string(t.VideoKind))
		if err != nil {
			return nil, fmt.Errorf("%w: title %q: %v", ErrCatalogMalformed, t.ID, err)
		}
		if kind == "" {
			kind = defaultKind
		}
		t.VideoKind = kind
		c.byID[t.ID] = len(c.titles)
		c.titles = append(c.titles, t)
	}

	if len(f.Themes) > 0 {
		c.themes = dedupe(f.Themes)
	} else {
		c.themes = dedupe(mapTitles(c.titles, func(t Title) string { return t.Theme }))
	}
	c.categories = dedupe(mapTitles(c.titles, func(t Title) string { return t.Type }))

	// Themes outside the declared set are a data-quality issue only.
	for _, t := range c.titles {
		if t.Theme != "" && !slices.Contains(c.themes, t.Theme) {
			c.warnings = append(c.warnings, fmt.Sprintf("title %q uses undeclared theme %q", t.ID, t.Theme))
		}
	}
	return c, nil
}

// Titles returns a copy of the ordered title list.
func (c *Catalog) Titles() []Title {
	return slices.Clone(c.titles)
}

// Themes returns a copy of the theme set in declaration order.
func (c *Catalog) Themes() []string {
	return slices.Clone(c.themes)
}

// Categories returns the distinct title types in first-appearance order.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// Lookup resolves a title by id.
func (c *Catalog) Lookup(id string) (Title, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Title{}, false
	}
	return c.titles[i], true
}

// Len returns the number of titles.
func (c *Catalog) Len() int {
	return len(c.titles)
}

// Warnings lists data-quality issues found while loading.
func (c *Catalog) Warnings() []string {
	return slices.Clone(c.warnings)
}

// BaseDir is the directory relative poster paths are resolved against.
// It is empty for catalogs built with New.
func (c *Catalog) BaseDir() string {
	return c.baseDir
}

// ImagePath resolves a title's poster to a file path or URL.
func (c *Catalog) ImagePath(t Title) string {
	if !t.HasImage() || t.IsRemoteImage() || filepath.IsAbs(t.Image) {
		return t.Image
	}
	return filepath.Join(c.baseDir, filepath.FromSlash(t.Image))
}

func mapTitles(titles []Title, fn func(Title) string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		out = append(out, fn(t))
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
