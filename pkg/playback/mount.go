package playback

import (
	"html/template"
	"sync"
)

// Content is what a provider placed into a mount point.
type Content struct {
	Provider string        `json:"provider"`
	Src      string        `json:"src,omitempty"`
	Markup   template.HTML `json:"markup,omitempty"`
	Script   string        `json:"script,omitempty"`
	Status   string        `json:"status,omitempty"`
}

// Mount is the single element a provider renders its player into.
type Mount struct {
	mu      sync.Mutex
	content Content
}

func NewMount() *Mount {
	return &Mount{}
}

func (m *Mount) Set(c Content) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = c
}

func (m *Mount) Clear() {
	m.Set(Content{})
}

func (m *Mount) Content() Content {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content
}

func (m *Mount) Empty() bool {
	return m.Content() == Content{}
}
