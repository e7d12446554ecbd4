// Package playback plays catalog titles through pluggable embed providers and
// owns the modal that shows the active player.
package playback

import (
	"errors"
)

var (
	ErrTitleNotFound       = errors.New("title not found")
	ErrProviderUnavailable = errors.New("video provider unavailable")
	ErrUnsupportedRef      = errors.New("video reference not supported by provider")
	ErrUnknownProvider     = errors.New("unknown video provider")
)

// State is the lifecycle state of the modal.
type State int

const (
	Closed State = iota
	Opening
	Open
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// Options are passed to a provider for every mount.
type Options struct {
	Autoplay bool
	Controls bool
	Width    string
	Height   string
}

// DefaultOptions turn autoplay on and hide the
// native controls.
func DefaultOptions() Options {
	return Options{
		Autoplay: true,
		Controls: false,
		Width:    "100%",
		Height:   "450",
	}
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
