// Package catalog holds the read-only title catalog and the pure query
// functions used to filter it.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// VideoKind tells embed providers how to interpret Title.Video.
type VideoKind string

const (
	// VideoID is a bare provider identifier (e.g. "x8my5j4").
	VideoID VideoKind = "id"
	// VideoURL is a complete URL usable as-is by the provider.
	VideoURL VideoKind = "url"
)

// ParseVideoKind validates a kind label. The empty string is accepted and
// returned unchanged so callers can apply their own default.
func ParseVideoKind(s string) (VideoKind, error) {
	switch k := VideoKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", VideoID, VideoURL:
		return k, nil
	default:
		return "", fmt.Errorf("unknown video kind %q", s)
	}
}

// VideoRef is the external video reference handed to an embed provider.
type VideoRef struct {
	Kind  VideoKind
	Value string
}

func (r VideoRef) String() string {
	return string(r.Kind) + ":" + r.Value
}

// Title represents one catalog entry
type Title struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Theme     string    `json:"theme" yaml:"theme"`
	Length    string    `json:"length" yaml:"length"`
	Type      string    `json:"type" yaml:"type"`
	Year      int       `json:"year" yaml:"year"`
	Image     string    `json:"image" yaml:"image"`
	Video     string    `json:"video" yaml:"video"`
	VideoKind VideoKind `json:"video_kind,omitempty" yaml:"video_kind,omitempty"`
}

func (t Title) GetID() string {
	return t.ID
}

func (t Title) GetName() string {
	return t.Name
}

// VideoRef returns the title's video reference.
func (t Title) VideoRef() VideoRef {
	kind := t.VideoKind
	if kind == "" {
		kind = VideoID
	}
	return VideoRef{Kind: kind, Value: t.Video}
}

// YearString returns the release year, or "" when it is unknown.
func (t Title) YearString() string {
	if t.Year == 0 {
		return ""
	}
	return strconv.Itoa(t.Year)
}

// HasImage reports whether the title carries a poster reference.
func (t Title) HasImage() bool {
	return t.Image != ""
}

// IsRemoteImage reports whether the poster is an http(s) URL rather than a
// path relative to the catalog file.
func (t Title) IsRemoteImage() bool {
	return strings.HasPrefix(t.Image, "http://") || strings.HasPrefix(t.Image, "https://")
}

// file is the on-disk catalog layout
type file struct {
	VideoKind VideoKind `json:"video_kind,omitempty" yaml:"video_kind,omitempty"`
	Themes    []string  `json:"themes" yaml:"themes"`
	Titles    []Title   `json:"titles" yaml:"titles"`
}
