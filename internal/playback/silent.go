package playback

import (
	"github.com/charmbracelet/log"
)

// Silent is a [Player] for environments without audio output.
type Silent struct {
	logger *log.Logger
}

// NewSilent creates a silent player logging through logger.
func NewSilent(logger *log.Logger) *Silent {
	return &Silent{logger: logger}
}

func (s *Silent) Create(source string) (Handle, error) {
	return &silentHandle{source: source, logger: s.logger}, nil
}

type silentHandle struct {
	source  string
	logger  *log.Logger
	playing bool
	volume  float64
	balance float64
	loop    bool
}

func (h *silentHandle) Play() error {
	h.playing = true
	h.logger.Debug("silent play", "source", h.source, "volume", h.volume, "balance", h.balance, "loop", h.loop)
	return nil
}

func (h *silentHandle) Pause() {
	h.playing = false
	h.logger.Debug("silent pause", "source", h.source)
}

func (h *silentHandle) SetVolume(v float64) { h.volume = v }
func (h *silentHandle) SetLoop(loop bool)   { h.loop = loop }
func (h *silentHandle) SetPan(b float64)    { h.balance = b }
