package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/Banh-Canh/cinedeck/pkg/catalog"
)

// DefaultURLTemplate expands id references for external players.
const DefaultURLTemplate = "https://www.dailymotion.com/video/%s"

// DefaultCommand is the player launched by the mpv provider.
func DefaultCommand() []string {
	return []string{"mpv", "--title=cinedeck-player", "--force-window=immediate"}
}

// ExternalPlayer plays videos in a separate player process. The video URL is
// appended to the configured argv.
type ExternalPlayer struct {
	command     []string
	urlTemplate string
}

func NewExternalPlayer(command []string, urlTemplate string) (*ExternalPlayer, error) {
	if len(command) == 0 {
		command = DefaultCommand()
	}
	if strings.TrimSpace(command[0]) == "" {
		return nil, errors.New("external player command is empty")
	}
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	if strings.Count(urlTemplate, "%s") != 1 {
		return nil, fmt.Errorf("url template %q must contain exactly one %%s", urlTemplate)
	}
	return &ExternalPlayer{command: command, urlTemplate: urlTemplate}, nil
}

func (p *ExternalPlayer) Name() string { return "mpv" }
func (p *ExternalPlayer) Kind() Kind   { return External }

// URL resolves ref to the address handed to the player.
func (p *ExternalPlayer) URL(ref catalog.VideoRef) (string, error) {
	v := strings.TrimSpace(ref.Value)
	if v == "" {
		return "", fmt.Errorf("%w: empty %s reference", ErrUnsupportedRef, ref.Kind)
	}
	switch ref.Kind {
	case catalog.VideoURL:
		return v, nil
	case catalog.VideoID:
		return fmt.Sprintf(p.urlTemplate, v), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRef, ref)
	}
}

func (p *ExternalPlayer) Mount(ctx context.Context, mount *Mount, ref catalog.VideoRef, _ Options) (Handle, error) {
	target, err := p.URL(ref)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	args := append(append([]string{}, p.command[1:]...), target)
	cmd := exec.Command(p.command[0], args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", p.command[0], err)
	}

	h := &processHandle{cmd: cmd, mount: mount, done: make(chan struct{})}
	processes.add(h)
	mount.Set(Content{
		Provider: p.Name(),
		Src:      target,
		Status:   fmt.Sprintf("Playing in %s (pid %d)", p.command[0], cmd.Process.Pid),
	})

	go h.wait()
	return h, nil
}

// processHandle tracks one running player process.
type processHandle struct {
	cmd   *exec.Cmd
	mount *Mount
	done  chan struct{}

	mu        sync.Mutex
	exited    bool
	destroyed bool
	onEnded   func()
}

func (h *processHandle) wait() {
	_ = h.cmd.Wait()
	processes.remove(h)
	close(h.done)

	h.mu.Lock()
	h.exited = true
	fn := h.onEnded
	h.onEnded = nil
	destroyed := h.destroyed
	h.mu.Unlock()

	if fn != nil && !destroyed {
		fn()
	}
}

func (h *processHandle) OnEnded(fn func()) {
	h.mu.Lock()
	if h.exited {
		destroyed := h.destroyed
		h.mu.Unlock()
		if fn != nil && !destroyed {
			fn()
		}
		return
	}
	h.onEnded = fn
	h.mu.Unlock()
}

// Destroy kills the player and waits for it to exit.
func (h *processHandle) Destroy() error {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return nil
	}
	h.destroyed = true
	h.onEnded = nil
	exited := h.exited
	h.mu.Unlock()

	var err error
	if !exited && h.cmd.Process != nil {
		if kerr := h.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = fmt.Errorf("failed to stop player: %w", kerr)
		}
	}
	<-h.done
	h.mount.Clear()
	return err
}

// Pid returns the player's process id.
func (h *processHandle) Pid() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// processRegistry tracks running player processes so they can be killed on exit.
type processRegistry struct {
	mu      sync.Mutex
	running map[*processHandle]struct{}
}

var processes = &processRegistry{running: map[*processHandle]struct{}{}}

func (r *processRegistry) add(h *processHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running[h] = struct{}{}
}

func (r *processRegistry) remove(h *processHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, h)
}

func (r *processRegistry) snapshot() []*processHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*processHandle, 0, len(r.running))
	for h := range r.running {
		out = append(out, h)
	}
	return out
}

// CleanupProcesses kills every player process started by this program.
func CleanupProcesses() {
	for _, h := range processes.snapshot() {
		_ = h.Destroy()
	}
}

// RunningProcesses reports how many player processes are alive.
func RunningProcesses() int {
	return len(processes.snapshot())
}
