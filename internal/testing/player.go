package testing

import (
	"fmt"

	"github.com/desertthunder/cafecloud/internal/playback"
	"github.com/desertthunder/cafecloud/internal/shared"
)

// FakePlayer is a test double for [playback.Player] that records every handle it creates.
type FakePlayer struct {
	// Deny makes every Play call fail with [shared.ErrPlaybackDenied].
	Deny bool
	// NoPan creates handles without the [playback.Panner] capability.
	NoPan bool
	// CreateErr is returned from Create when set.
	CreateErr error

	Handles []*FakeHandle
}

func (p *FakePlayer) Create(source string) (playback.Handle, error) {
	if p.CreateErr != nil {
		return nil, p.CreateErr
	}
	h := &FakeHandle{Source: source, deny: &p.Deny}
	p.Handles = append(p.Handles, h)
	if p.NoPan {
		return &plainHandle{h}, nil
	}
	return h, nil
}

// Handle returns the most recent handle created for source.
func (p *FakePlayer) Handle(source string) *FakeHandle {
	for i := len(p.Handles) - 1; i >= 0; i-- {
		if p.Handles[i].Source == source {
			return p.Handles[i]
		}
	}
	return nil
}

// FakeHandle records calls made through [playback.Handle] and [playback.Panner].
type FakeHandle struct {
	Source  string
	Playing bool
	Volume  float64
	Balance float64
	Loop    bool

	PlayCalls   int
	PauseCalls  int
	VolumeCalls int
	PanCalls    int

	deny   *bool
	onExit func(error)
}

func (h *FakeHandle) Play() error {
	h.PlayCalls++
	if h.deny != nil && *h.deny {
		return fmt.Errorf("%w: autoplay blocked", shared.ErrPlaybackDenied)
	}
	h.Playing = true
	return nil
}

func (h *FakeHandle) Pause() {
	h.PauseCalls++
	h.Playing = false
}

func (h *FakeHandle) SetVolume(v float64) {
	h.VolumeCalls++
	h.Volume = v
}

func (h *FakeHandle) SetLoop(loop bool) { h.Loop = loop }

func (h *FakeHandle) OnExit(fn func(error)) { h.onExit = fn }
func (h *FakeHandle) Running() bool         { return h.Playing }

// Exit simulates playback ending without a Pause, like a player process that dies.
func (h *FakeHandle) Exit(err error) {
	h.Playing = false
	if h.onExit != nil {
		h.onExit(err)
	}
}

func (h *FakeHandle) SetPan(b float64) {
	h.PanCalls++
	h.Balance = b
}

// plainHandle hides SetPan so callers see a handle without panning support.
type plainHandle struct{ h *FakeHandle }

func (p *plainHandle) Play() error         { return p.h.Play() }
func (p *plainHandle) Pause()              { p.h.Pause() }
func (p *plainHandle) SetVolume(v float64) { p.h.SetVolume(v) }
func (p *plainHandle) SetLoop(loop bool)   { p.h.SetLoop(loop) }
