package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mode is a Pomodoro session kind.
type Mode int

const (
	Focus Mode = iota
	ShortBreak
	LongBreak
)

// Modes lists every mode in display order.
var Modes = []Mode{Focus, ShortBreak, LongBreak}

func (m Mode) String() string {
	switch m {
	case Focus:
		return "focus"
	case ShortBreak:
		return "shortBreak"
	case LongBreak:
		return "longBreak"
	default:
		return ""
	}
}

// Label returns the human readable mode name.
func (m Mode) Label() string {
	switch m {
	case Focus:
		return "Focus Time"
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	default:
		return ""
	}
}

// Valid reports whether m is one of the three modes.
func (m Mode) Valid() bool {
	return m >= Focus && m <= LongBreak
}

// MaxMinutes is the upper duration bound for the mode.
func (m Mode) MaxMinutes() int {
	if m == Focus {
		return 120
	}
	return 60
}

// ParseMode accepts the mode names used in config, flags and persisted records.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "focus", "pomodoro":
		return Focus, nil
	case "shortbreak", "short_break", "short-break", "short":
		return ShortBreak, nil
	case "longbreak", "long_break", "long-break", "long":
		return LongBreak, nil
	default:
		return Focus, fmt.Errorf("unknown timer mode %q", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid timer mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Status is the timer's lifecycle state.
type Status int

const (
	Idle Status = iota
	Running
	Paused
	Finished
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	MinMinutes                 = 1
	MinSessionsBeforeLongBreak = 1
	MaxSessionsBeforeLongBreak = 10
	DefaultSessionsBeforeLong  = 4
)

// TimerConfig holds the user-configurable timer settings. Durations are minutes.
type TimerConfig struct {
	Focus                   int  `json:"focus"`
	ShortBreak              int  `json:"short_break"`
	LongBreak               int  `json:"long_break"`
	SessionsBeforeLongBreak int  `json:"sessions_before_long_break"`
	AutoStart               bool `json:"auto_start"`
}

// DefaultTimerConfig returns the classic 25/5/15 cycle.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Focus:                   25,
		ShortBreak:              5,
		LongBreak:               15,
		SessionsBeforeLongBreak: DefaultSessionsBeforeLong,
	}
}

// Minutes returns the configured duration for mode.
func (c TimerConfig) Minutes(mode Mode) int {
	switch mode {
	case ShortBreak:
		return c.ShortBreak
	case LongBreak:
		return c.LongBreak
	default:
		return c.Focus
	}
}

// WithMinutes returns a copy of c with mode's duration set to the clamped minutes.
func (c TimerConfig) WithMinutes(mode Mode, minutes int) TimerConfig {
	minutes = ClampMinutes(mode, minutes)
	switch mode {
	case ShortBreak:
		c.ShortBreak = minutes
	case LongBreak:
		c.LongBreak = minutes
	default:
		c.Focus = minutes
	}
	return c
}

// Normalize clamps every field into its valid range.
func (c TimerConfig) Normalize() TimerConfig {
	c.Focus = ClampMinutes(Focus, c.Focus)
	c.ShortBreak = ClampMinutes(ShortBreak, c.ShortBreak)
	c.LongBreak = ClampMinutes(LongBreak, c.LongBreak)
	c.SessionsBeforeLongBreak = ClampSessions(c.SessionsBeforeLongBreak)
	return c
}

// ClampMinutes bounds a duration to [1, mode max].
func ClampMinutes(mode Mode, minutes int) int {
	if minutes < MinMinutes {
		return MinMinutes
	}
	if max := mode.MaxMinutes(); minutes > max {
		return max
	}
	return minutes
}

// ClampSessions bounds the long break cadence to [1,10].
func ClampSessions(n int) int {
	if n < MinSessionsBeforeLongBreak {
		return MinSessionsBeforeLongBreak
	}
	if n > MaxSessionsBeforeLongBreak {
		return MaxSessionsBeforeLongBreak
	}
	return n
}

// ParseMinutes parses live user input, falling back to prev when raw is not a number. Numbers
// too large for an int saturate, so callers clamping to a range see the range's bound.
func ParseMinutes(raw string, prev int) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}

	f, err := strconv.ParseFloat(raw, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		// overflow yields ±Inf, underflow 0
	case err != nil, math.IsNaN(f), math.IsInf(f, 0):
		return prev
	}

	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

// TimerState is a read-only snapshot of the timer.
type TimerState struct {
	Mode                   Mode        `json:"mode"`
	Status                 Status      `json:"status"`
	RemainingSeconds       int         `json:"remaining_seconds"`
	Running                bool        `json:"running"`
	Finished               bool        `json:"finished"`
	CompletedFocusSessions int         `json:"completed_focus_sessions"`
	SessionID              string      `json:"session_id,omitempty"`
	Config                 TimerConfig `json:"config"`
}

// TotalSeconds is the full length of the current mode.
func (s TimerState) TotalSeconds() int {
	return s.Config.Minutes(s.Mode) * 60
}

// Progress reports elapsed time of the current session as a fraction in [0,1].
func (s TimerState) Progress() float64 {
	total := s.TotalSeconds()
	if total <= 0 {
		return 0
	}
	return Clamp01(float64(total-s.RemainingSeconds) / float64(total))
}
