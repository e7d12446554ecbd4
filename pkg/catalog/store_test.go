package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"Comedy", "Drama", "Action"}, c.Themes())
	assert.Equal(t, []string{"Movie", "Series"}, c.Categories())

	a, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "Alpha", a.Name)
	assert.Equal(t, VideoRef{Kind: VideoID, Value: "x1"}, a.VideoRef())
	assert.Equal(t, filepath.Join("testdata", "posters", "alpha.jpg"), c.ImagePath(a))

	b, ok := c.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, VideoURL, b.VideoKind)
	assert.Equal(t, "https://example.com/beta.jpg", c.ImagePath(b))

	// Gamma uses a theme outside the declared set: warning, not failure.
	require.Len(t, c.Warnings(), 1)
	assert.Contains(t, c.Warnings()[0], "Western")
}

func TestLoadJSONDerivesThemes(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "catalog.json"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Comedy", "Drama"}, c.Themes())
	assert.Empty(t, c.Warnings())
	for _, title := range c.Titles() {
		assert.Equal(t, VideoID, title.VideoKind, title.ID)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "no path", path: "", want: ErrCatalogMissing},
		{name: "missing file", path: filepath.Join("testdata", "nope.yaml"), want: ErrCatalogMissing},
		{name: "empty file", path: filepath.Join("testdata", "empty.yaml"), want: ErrCatalogMissing},
		{name: "broken yaml", path: filepath.Join("testdata", "broken.yaml"), want: ErrCatalogMalformed},
		{name: "duplicate id", path: filepath.Join("testdata", "duplicate.yaml"), want: ErrCatalogMalformed},
		{name: "unknown video kind", path: filepath.Join("testdata", "badkind.yaml"), want: ErrCatalogMalformed},
		{name: "unsupported extension", path: filepath.Join("testdata", "catalog.toml"), want: ErrCatalogMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(tt.path)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrCatalogMissing)

	_, err = New([]Title{{Name: "no id"}}, nil)
	assert.ErrorIs(t, err, ErrCatalogMalformed)

	c, err := New([]Title{{ID: " spaced ", Name: "Spaced"}}, []string{"Drama", "Drama", " "})
	require.NoError(t, err)
	_, ok := c.Lookup("spaced")
	assert.True(t, ok)
	assert.Equal(t, []string{"Drama"}, c.Themes())
	assert.Empty(t, c.BaseDir())
}

func TestTitlesReturnsCopy(t *testing.T) {
	c, err := New([]Title{{ID: "a", Name: "Alpha"}}, nil)
	require.NoError(t, err)

	titles := c.Titles()
	titles[0].Name = "changed"

	a, _ := c.Lookup("a")
	assert.Equal(t, "Alpha", a.Name)
	assert.Equal(t, "Alpha", c.Titles()[0].Name)
}
