// Package timer implements the Pomodoro session state machine.
//
// The machine is driven by a [clock.Clock]: a periodic tick while running and a one-shot
// settle delay before an automatic mode advance. Every start, pause, reset and idle mode or
// duration change bumps a generation counter. Scheduled callbacks capture the generation they
// were created under and do nothing once it is stale, so a callback that was already queued when
// its token was cancelled cannot mutate state.
package timer

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cafecloud/internal/clock"
	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/shared"
)

const (
	DefaultTickInterval = time.Second
	DefaultSettleDelay  = 2 * time.Second
)

// Notifier is told when a session runs out. It must not block.
type Notifier interface {
	Notify()
}

// Observer receives a snapshot after every state change.
type Observer func(models.TimerState)

// Machine is the timer state machine. It is not safe for concurrent use; all calls and clock
// callbacks must run on one goroutine.
type Machine struct {
	clock    clock.Clock
	notifier Notifier
	observer Observer
	logger   *log.Logger

	tickInterval time.Duration
	settleDelay  time.Duration

	cfg       models.TimerConfig
	mode      models.Mode
	status    models.Status
	remaining int
	completed int
	sessionID string

	generation uint64
	tick       clock.Token
	chain      clock.Token
}

// Option configures a [Machine].
type Option func(*Machine)

func WithNotifier(n Notifier) Option { return func(m *Machine) { m.notifier = n } }
func WithObserver(o Observer) Option { return func(m *Machine) { m.observer = o } }

// WithTickInterval overrides the one second tick. Non-positive values are ignored.
func WithTickInterval(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// WithSettleDelay overrides the pause before an automatic mode advance. Negative values are ignored.
func WithSettleDelay(d time.Duration) Option {
	return func(m *Machine) {
		if d >= 0 {
			m.settleDelay = d
		}
	}
}

// New creates an idle machine in focus mode.
func New(clk clock.Clock, cfg models.TimerConfig, logger *log.Logger, opts ...Option) *Machine {
	m := &Machine{
		clock:        clk,
		logger:       logger,
		tickInterval: DefaultTickInterval,
		settleDelay:  DefaultSettleDelay,
		cfg:          cfg.Normalize(),
		mode:         models.Focus,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.remaining = m.duration(m.mode)
	return m
}

// SetObserver replaces the observer.
func (m *Machine) SetObserver(o Observer) {
	m.observer = o
}

// Start runs the timer from Idle or Paused. It does nothing in any other state.
func (m *Machine) Start() {
	switch m.status {
	case models.Idle:
		m.sessionID = shared.GenerateID()
		m.logger.Info("session started", "mode", m.mode, "session", m.sessionID, "seconds", m.remaining)
	case models.Paused:
		m.logger.Debug("session resumed", "mode", m.mode, "session", m.sessionID, "seconds", m.remaining)
	default:
		return
	}

	m.halt()
	m.run()
	m.emit()
}

// Pause stops a running timer, keeping the remaining time.
func (m *Machine) Pause() {
	if m.status != models.Running {
		return
	}
	m.halt()
	m.status = models.Paused
	m.logger.Debug("session paused", "mode", m.mode, "session", m.sessionID, "seconds", m.remaining)
	m.emit()
}

// Reset abandons the current session and the focus session count.
func (m *Machine) Reset() {
	m.halt()
	m.status = models.Idle
	m.remaining = m.duration(m.mode)
	m.completed = 0
	m.sessionID = ""
	m.logger.Debug("timer reset", "mode", m.mode)
	m.emit()
}

// SetMode switches the current mode. A running session keeps counting down; otherwise the timer
// goes idle with the new mode's full duration. The focus session count is untouched.
func (m *Machine) SetMode(mode models.Mode) {
	if !mode.Valid() {
		m.logger.Warn("ignoring invalid timer mode", "mode", int(mode))
		return
	}

	m.mode = mode
	if m.status != models.Running {
		m.idle()
	}
	m.emit()
}

// RestoreMode applies a stored mode. It only takes effect while idle.
func (m *Machine) RestoreMode(mode models.Mode) {
	if m.status != models.Idle || !mode.Valid() {
		return
	}
	m.mode = mode
	m.idle()
	m.emit()
}

// SetDuration sets a mode's duration in minutes, clamped to the mode's range. Changing the
// current mode while not running puts the timer idle at the new duration.
func (m *Machine) SetDuration(mode models.Mode, minutes int) {
	if !mode.Valid() {
		m.logger.Warn("ignoring duration for invalid timer mode", "mode", int(mode))
		return
	}

	m.cfg = m.cfg.WithMinutes(mode, minutes)
	if mode == m.mode && m.status != models.Running {
		m.idle()
	}
	m.emit()
}

// SetDurationInput parses raw user input. Non-numeric input keeps the previous duration.
func (m *Machine) SetDurationInput(mode models.Mode, raw string) {
	m.SetDuration(mode, models.ParseMinutes(raw, m.cfg.Minutes(mode)))
}

// SetAutoStart toggles automatic chaining. Turning it off drops a pending advance.
func (m *Machine) SetAutoStart(enabled bool) {
	m.cfg.AutoStart = enabled
	if !enabled && m.chain != 0 {
		m.clock.Cancel(m.chain)
		m.chain = 0
	}
	m.emit()
}

// SetSessionsBeforeLongBreak sets the long break cadence, clamped to [1,10].
func (m *Machine) SetSessionsBeforeLongBreak(n int) {
	m.cfg.SessionsBeforeLongBreak = models.ClampSessions(n)
	m.emit()
}

// ApplyConfig replaces the whole configuration. A timer that is not running goes idle at the
// current mode's new duration.
func (m *Machine) ApplyConfig(cfg models.TimerConfig) {
	m.cfg = cfg.Normalize()
	if m.status != models.Running {
		m.idle()
	}
	m.emit()
}

// Config returns the current configuration.
func (m *Machine) Config() models.TimerConfig {
	return m.cfg
}

// State returns a snapshot.
func (m *Machine) State() models.TimerState {
	return models.TimerState{
		Mode:                   m.mode,
		Status:                 m.status,
		RemainingSeconds:       m.remaining,
		Running:                m.status == models.Running,
		Finished:               m.status == models.Finished,
		CompletedFocusSessions: m.completed,
		SessionID:              m.sessionID,
		Config:                 m.cfg,
	}
}

// Close cancels every pending callback.
func (m *Machine) Close() {
	m.halt()
}

func (m *Machine) onTick(gen uint64) {
	if gen != m.generation || m.status != models.Running {
		return
	}

	m.remaining--
	if m.remaining > 0 {
		m.emit()
		return
	}

	m.halt()
	m.remaining = 0
	m.status = models.Finished
	m.logger.Info("session finished", "mode", m.mode, "session", m.sessionID)

	if m.notifier != nil {
		m.notifier.Notify()
	}
	if m.cfg.AutoStart {
		next := m.generation
		m.chain = m.clock.ScheduleOnce(m.settleDelay, func() { m.onChain(next) })
	}
	m.emit()
}

func (m *Machine) onChain(gen uint64) {
	if gen != m.generation || m.status != models.Finished {
		return
	}
	m.chain = 0

	m.advance()
	m.remaining = m.duration(m.mode)
	m.sessionID = shared.GenerateID()
	m.logger.Info("session started", "mode", m.mode, "session", m.sessionID, "seconds", m.remaining, "auto", true)

	m.run()
	m.emit()
}

// advance picks the mode after a natural completion. The focus count resets on entering a long
// break, never on leaving it.
func (m *Machine) advance() {
	switch m.mode {
	case models.Focus:
		m.completed++
		if m.completed >= m.cfg.SessionsBeforeLongBreak {
			m.mode = models.LongBreak
			m.completed = 0
		} else {
			m.mode = models.ShortBreak
		}
	case models.ShortBreak, models.LongBreak:
		m.mode = models.Focus
	}
}

func (m *Machine) run() {
	m.generation++
	gen := m.generation
	m.status = models.Running
	m.tick = m.clock.SchedulePeriodic(m.tickInterval, func() { m.onTick(gen) })
}

// halt invalidates and cancels every scheduled callback.
func (m *Machine) halt() {
	m.generation++
	if m.tick != 0 {
		m.clock.Cancel(m.tick)
		m.tick = 0
	}
	if m.chain != 0 {
		m.clock.Cancel(m.chain)
		m.chain = 0
	}
}

func (m *Machine) idle() {
	m.halt()
	m.status = models.Idle
	m.remaining = m.duration(m.mode)
	m.sessionID = ""
}

func (m *Machine) duration(mode models.Mode) int {
	return m.cfg.Minutes(mode) * 60
}

func (m *Machine) emit() {
	if m.observer != nil {
		m.observer(m.State())
	}
}
