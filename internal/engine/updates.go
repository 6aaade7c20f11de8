package engine

import (
	"fmt"

	"github.com/desertthunder/cafecloud/internal/models"
)

// Update is a state change event for the presentation layer.
type Update struct {
	Kind    Kind              // What changed
	Message string            // Human-readable message for display
	Mixer   models.MixerState // Mixer snapshot, set for mixer updates
	Timer   models.TimerState // Timer snapshot, set for timer updates
}

// Update kind enumeration
type Kind int

const (
	MixerChanged Kind = iota
	TimerTick
	TimerChanged
	SessionFinished
	PreferencesChanged
)

func (k Kind) String() string {
	switch k {
	case MixerChanged:
		return "mixer_changed"
	case TimerTick:
		return "timer_tick"
	case TimerChanged:
		return "timer_changed"
	case SessionFinished:
		return "session_finished"
	case PreferencesChanged:
		return "preferences_changed"
	default:
		return ""
	}
}

func mixerUpdate(state models.MixerState, format string, args ...any) Update {
	return Update{Kind: MixerChanged, Message: fmt.Sprintf(format, args...), Mixer: state}
}

func tickUpdate(state models.TimerState) Update {
	return Update{Kind: TimerTick, Timer: state}
}

func timerUpdate(state models.TimerState) Update {
	return Update{
		Kind:    TimerChanged,
		Message: fmt.Sprintf("%s %s", state.Mode.Label(), state.Status),
		Timer:   state,
	}
}

func finishedUpdate(state models.TimerState) Update {
	return Update{
		Kind:    SessionFinished,
		Message: fmt.Sprintf("%s finished", state.Mode.Label()),
		Timer:   state,
	}
}

func preferencesUpdate(enabled bool) Update {
	msg := "Preferences will not be saved"
	if enabled {
		msg = "Preferences will be saved"
	}
	return Update{Kind: PreferencesChanged, Message: msg}
}
