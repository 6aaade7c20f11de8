// Package audio owns playback of the ambient tracks: one [TrackController] per sound, the
// [Mixer] that combines them under a master volume, and the one-shot [Chime].
package audio

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/playback"
)

// State is the controller's playback state. There is no loading state.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// TrackController owns one playback handle.
//
// Volume is the gain pushed to the handle, already combined with master volume and mute by
// the caller. Pan is stored in [0,1] and applied as a balance in [-1,1].
type TrackController struct {
	source string
	handle playback.Handle
	logger *log.Logger

	state  State
	volume float64
	pan    float64
}

// NewTrackController creates a controller for source.
func NewTrackController(player playback.Player, source string, loop bool, logger *log.Logger) (*TrackController, error) {
	h, err := player.Create(source)
	if err != nil {
		return nil, fmt.Errorf("failed to create playback handle for %s: %w", source, err)
	}
	h.SetLoop(loop)

	return &TrackController{
		source: source,
		handle: h,
		logger: logger,
		volume: 1,
		pan:    models.DefaultTrackPan,
	}, nil
}

// Play starts playback at the current volume. Calling it while playing does nothing.
//
// A refusal from the backend is logged and leaves the controller stopped.
func (c *TrackController) Play() {
	if c.state == Playing {
		return
	}

	c.handle.SetVolume(c.volume)
	if err := c.handle.Play(); err != nil {
		c.logger.Warn("playback refused", "source", c.source, "error", err)
		return
	}
	c.state = Playing
}

// Pause stops playback. Calling it while stopped does nothing.
func (c *TrackController) Pause() {
	if c.state == Stopped {
		return
	}
	c.handle.Pause()
	c.state = Stopped
}

// SetVolume clamps v to [0,1] and applies it immediately when playing.
func (c *TrackController) SetVolume(v float64) {
	c.volume = models.Clamp01(v)
	if c.state == Playing {
		c.handle.SetVolume(c.volume)
	}
}

// SetPan clamps p to [0,1]. Handles without panning support ignore it.
func (c *TrackController) SetPan(p float64) {
	c.pan = models.Clamp01(p)
	if panner, ok := c.handle.(playback.Panner); ok {
		panner.SetPan(Balance(c.pan))
	}
}

// Watch reports playback that ends without a Pause, e.g. a player process that dies after
// starting. post hands the report to the goroutine that owns the controller; stopped runs there
// after the controller has gone back to Stopped. Handles that cannot end on their own are ignored.
func (c *TrackController) Watch(post func(func()), stopped func(error)) {
	w, ok := c.handle.(playback.Watcher)
	if !ok {
		return
	}
	w.OnExit(func(err error) {
		post(func() {
			// paused or restarted since the exit
			if c.state != Playing || w.Running() {
				return
			}
			c.state = Stopped
			stopped(err)
		})
	})
}

func (c *TrackController) State() State    { return c.state }
func (c *TrackController) Playing() bool   { return c.state == Playing }
func (c *TrackController) Volume() float64 { return c.volume }
func (c *TrackController) Pan() float64    { return c.pan }
func (c *TrackController) Source() string  { return c.source }

// Balance maps a pan position in [0,1] to a stereo balance in [-1,1].
func Balance(p float64) float64 {
	return 2*models.Clamp01(p) - 1
}
