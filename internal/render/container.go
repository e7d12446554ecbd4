// Package render turns lists of titles into display units inside a stable
// result container.
package render

import (
	"github.com/Banh-Canh/cinedeck/pkg/catalog"
)

// NoResults is the default placeholder shown for an empty result list.
const NoResults = "No movies found matching your criteria."

// PlayFunc is invoked with the id of the unit the user activated.
type PlayFunc func(titleID string)

// Unit is one rendered title, bound to the title's id.
type Unit struct {
	TitleID string
	Name    string
	Theme   string
	Length  string
	Type    string
	Year    string
	Image   string
}

// Node is a child of the container: either a unit or the placeholder.
type Node struct {
	Unit        *Unit
	Placeholder string
}

// Container is a result region. The play handler is bound once when the
// container is created; Render only replaces the units, so activation never
// fires more than once per call regardless of how often it re-renders.
type Container struct {
	placeholder string
	play        PlayFunc
	units       []Unit
	empty       bool
	renders     int
}

// NewContainer creates an empty container. play may be nil when activation is
// handled elsewhere (e.g. by a browser-side listener).
func NewContainer(placeholder string, play PlayFunc) *Container {
	if placeholder == "" {
		placeholder = NoResults
	}
	return &Container{placeholder: placeholder, play: play}
}

// Render clears prior content and renders titles.
func (c *Container) Render(titles []catalog.Title) {
	c.units = make([]Unit, 0, len(titles))
	for _, t := range titles {
		c.units = append(c.units, Unit{
			TitleID: t.ID,
			Name:    t.Name,
			Theme:   t.Theme,
			Length:  t.Length,
			Type:    t.Type,
			Year:    t.YearString(),
			Image:   t.Image,
		})
	}
	c.empty = len(c.units) == 0
	c.renders++
}

// Units returns the currently rendered units.
func (c *Container) Units() []Unit {
	return c.units
}

// Nodes returns the container's children in display order.
func (c *Container) Nodes() []Node {
	if c.empty {
		return []Node{{Placeholder: c.placeholder}}
	}
	nodes := make([]Node, 0, len(c.units))
	for i := range c.units {
		nodes = append(nodes, Node{Unit: &c.units[i]})
	}
	return nodes
}

// Empty reports whether the last render produced the placeholder.
func (c *Container) Empty() bool {
	return c.empty
}

// Placeholder returns the "no results" text.
func (c *Container) Placeholder() string {
	return c.placeholder
}

// Len returns the number of rendered units.
func (c *Container) Len() int {
	return len(c.units)
}

// At returns the unit at index i.
func (c *Container) At(i int) (Unit, bool) {
	if i < 0 || i >= len(c.units) {
		return Unit{}, false
	}
	return c.units[i], true
}

// Index returns the position of the unit bound to titleID, or -1.
func (c *Container) Index(titleID string) int {
	for i, u := range c.units {
		if u.TitleID == titleID {
			return i
		}
	}
	return -1
}

// Activate dispatches the play action for the unit bound to titleID. It
// reports false when no such unit is currently rendered or no handler is bound.
func (c *Container) Activate(titleID string) bool {
	if c.play == nil || c.Index(titleID) < 0 {
		return false
	}
	c.play(titleID)
	return true
}

// Renders counts Render calls.
func (c *Container) Renders() int {
	return c.renders
}
