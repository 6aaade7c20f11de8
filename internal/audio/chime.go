package audio

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/cafecloud/internal/playback"
)

// DefaultChimeVolume is the gain of the session-end notification.
const DefaultChimeVolume = 0.3

// Chime plays a short notification sound.
type Chime struct {
	player playback.Player
	source string
	volume float64
	logger *log.Logger
}

// NewChime creates a chime for source. An empty source disables it.
func NewChime(player playback.Player, source string, volume float64, logger *log.Logger) *Chime {
	return &Chime{player: player, source: source, volume: volume, logger: logger}
}

// Notify plays the chime once on a fresh controller. Failures are logged and ignored.
func (c *Chime) Notify() {
	if c == nil || c.source == "" {
		return
	}

	ctrl, err := NewTrackController(c.player, c.source, false, c.logger)
	if err != nil {
		c.logger.Warn("chime unavailable", "source", c.source, "error", err)
		return
	}
	ctrl.SetVolume(c.volume)
	ctrl.Play()
}
