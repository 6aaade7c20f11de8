package playback

import (
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cafecloud/internal/shared"
)

// Exec is a [Player] that runs one external player process (ffplay by default) per playing handle.
//
// Volume and pan changes while playing restart the process with new arguments.
type Exec struct {
	path     string
	logger   *log.Logger
	lookPath func(string) (string, error)
	command  func(name string, args ...string) *exec.Cmd
}

// NewExec creates a player that launches the binary at path ("ffplay" when empty).
func NewExec(path string, logger *log.Logger) *Exec {
	if path == "" {
		path = "ffplay"
	}
	return &Exec{path: path, logger: logger, lookPath: exec.LookPath, command: exec.Command}
}

func (e *Exec) Create(source string) (Handle, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", shared.ErrInvalidArgument)
	}
	return &execHandle{player: e, source: source, volume: 1}, nil
}

// Args builds the player arguments for a source at the given volume, balance and loop setting.
func Args(source string, volume, balance float64, loop bool) []string {
	loops := "1"
	if loop {
		loops = "0"
	}

	vol := int(volume*100 + 0.5)
	args := []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-loop", loops, "-volume", strconv.Itoa(vol)}
	if balance != 0 {
		args = append(args, "-af", "stereotools=balance_out="+strconv.FormatFloat(balance, 'f', 2, 64))
	}
	return append(args, source)
}

type execHandle struct {
	player *Exec

	mu      sync.Mutex
	source  string
	cmd     *exec.Cmd
	volume  float64
	balance float64
	loop    bool
	onExit  func(error)
}

func (h *execHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd != nil {
		return nil
	}
	return h.start()
}

func (h *execHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stop()
}

func (h *execHandle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v == h.volume {
		return
	}
	h.volume = v
	h.restart()
}

func (h *execHandle) SetPan(b float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b == h.balance {
		return
	}
	h.balance = b
	h.restart()
}

func (h *execHandle) OnExit(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onExit = fn
}

func (h *execHandle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cmd != nil
}

func (h *execHandle) SetLoop(loop bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loop = loop
}

func (h *execHandle) start() error {
	bin, err := h.player.lookPath(h.player.path)
	if err != nil {
		return fmt.Errorf("%w: %s not available: %v", shared.ErrPlaybackDenied, h.player.path, err)
	}

	cmd := h.player.command(bin, Args(h.source, h.volume, h.balance, h.loop)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to start player: %v", shared.ErrPlaybackDenied, err)
	}
	h.cmd = cmd

	go h.wait(cmd)
	return nil
}

// wait reaps cmd. Exits the handle did not ask for are reported to the OnExit callback.
func (h *execHandle) wait(cmd *exec.Cmd) {
	err := cmd.Wait()

	h.mu.Lock()
	own := h.cmd == cmd
	if own {
		h.cmd = nil
	}
	fn := h.onExit
	h.mu.Unlock()

	if !own {
		return
	}
	if err != nil {
		err = fmt.Errorf("%w: player exited: %v", shared.ErrPlaybackDenied, err)
	}
	h.player.logger.Debug("player exited", "source", h.source, "error", err)
	if fn != nil {
		fn(err)
	}
}

func (h *execHandle) stop() {
	if h.cmd == nil {
		return
	}
	if h.cmd.Process != nil {
		_ = h.cmd.Process.Kill()
	}
	h.cmd = nil
}

func (h *execHandle) restart() {
	if h.cmd == nil {
		return
	}
	h.stop()
	if err := h.start(); err != nil {
		h.player.logger.Warn("failed to restart player", "source", h.source, "error", err)
	}
}
