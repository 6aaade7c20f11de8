package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cafecloud/internal/audio"
	"github.com/desertthunder/cafecloud/internal/clock"
	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/playback"
	"github.com/desertthunder/cafecloud/internal/preferences"
	"github.com/desertthunder/cafecloud/internal/shared"
	"github.com/desertthunder/cafecloud/internal/timer"
)

// Options holds the engine's collaborators and defaults.
type Options struct {
	Catalog []models.Sound
	Player  playback.Player
	Clock   clock.Clock
	Backend preferences.Backend

	MasterVolume  float64
	DefaultVolume float64
	DefaultPan    float64
	ChimeSource   string
	ChimeVolume   float64

	Timer        models.TimerConfig
	TickInterval time.Duration
	SettleDelay  time.Duration

	WriteInterval time.Duration
	WriteBurst    int

	// Updates receives state changes. Sends never block.
	Updates chan<- Update
}

// DefaultOptions returns options with the built-in catalog and defaults. Player, Clock and
// Backend must still be set.
func DefaultOptions() Options {
	return Options{
		Catalog:       models.DefaultCatalog(),
		MasterVolume:  models.DefaultMasterVolume,
		DefaultVolume: models.DefaultTrackVolume,
		DefaultPan:    models.DefaultTrackPan,
		ChimeVolume:   audio.DefaultChimeVolume,
		Timer:         models.DefaultTimerConfig(),
		TickInterval:  timer.DefaultTickInterval,
		SettleDelay:   timer.DefaultSettleDelay,
		WriteBurst:    1,
	}
}

// Snapshot is the full read-only state for rendering.
type Snapshot struct {
	Mixer              models.MixerState    `json:"mixer"`
	Timer              models.TimerState    `json:"timer"`
	UI                 models.UIPreferences `json:"ui"`
	PersistenceEnabled bool                 `json:"persistence_enabled"`
}

// Engine wires the mixer and the timer to the preference binding.
type Engine struct {
	mixer   *audio.Mixer
	timer   *timer.Machine
	binding *preferences.Binding
	logger  *log.Logger
	updates chan<- Update

	ui         models.UIPreferences
	lastStatus models.Status
}

// New builds an engine and restores stored preferences when persistence is enabled.
func New(opts Options, logger *log.Logger) (*Engine, error) {
	switch {
	case opts.Player == nil:
		return nil, fmt.Errorf("%w: player", shared.ErrMissingArgument)
	case opts.Clock == nil:
		return nil, fmt.Errorf("%w: clock", shared.ErrMissingArgument)
	case opts.Backend == nil:
		return nil, fmt.Errorf("%w: preference backend", shared.ErrMissingArgument)
	}

	e := &Engine{logger: shared.WithLogger(logger, "component", "engine"), updates: opts.Updates}

	gate := preferences.NewGate(opts.Backend, shared.WithLogger(logger, "component", "preferences"))
	e.binding = preferences.NewBinding(
		gate,
		shared.WithLogger(logger, "component", "preferences"),
		opts.WriteInterval,
		opts.WriteBurst,
		preferences.WithScheduler(opts.Clock),
	)

	e.mixer = audio.NewMixer(
		opts.Player,
		shared.WithLogger(logger, "component", "mixer"),
		audio.WithDefaults(opts.DefaultVolume, opts.DefaultPan),
		audio.WithMasterVolume(opts.MasterVolume),
		audio.WithClock(opts.Clock),
		audio.WithStopObserver(e.onTrackStopped),
	)
	if err := e.mixer.Initialize(opts.Catalog); err != nil {
		return nil, err
	}

	chime := audio.NewChime(opts.Player, opts.ChimeSource, opts.ChimeVolume, shared.WithLogger(logger, "component", "chime"))
	e.timer = timer.New(
		opts.Clock,
		opts.Timer,
		shared.WithLogger(logger, "component", "timer"),
		timer.WithNotifier(chime),
		timer.WithTickInterval(opts.TickInterval),
		timer.WithSettleDelay(opts.SettleDelay),
	)

	e.restore()
	e.lastStatus = e.timer.State().Status
	e.timer.SetObserver(e.onTimer)
	return e, nil
}

func (e *Engine) restore() {
	if !e.binding.Gate().Enabled() {
		return
	}
	if p, ok := e.binding.LoadMixer(); ok {
		e.mixer.ApplyPreferences(p)
	}
	if cfg, ok := e.binding.LoadTimer(); ok {
		e.timer.ApplyConfig(cfg)
	}
	if mode, ok := e.binding.LoadMode(); ok {
		e.timer.RestoreMode(mode)
	}
	if ui, ok := e.binding.LoadUI(); ok {
		e.ui = ui
	}
	e.logger.Debug("preferences restored")
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Mixer:              e.mixer.Snapshot(),
		Timer:              e.timer.State(),
		UI:                 e.ui,
		PersistenceEnabled: e.binding.Gate().Enabled(),
	}
}

// TogglePlay flips a track between playing and stopped.
func (e *Engine) TogglePlay(key models.TrackKey) error {
	if err := e.mixer.TogglePlay(key); err != nil {
		return err
	}
	s := e.mixer.Snapshot()
	t, _ := s.Track(key)
	if t.Playing {
		e.send(mixerUpdate(s, "Playing %s", t.Label))
	} else {
		e.send(mixerUpdate(s, "Stopped %s", t.Label))
	}
	return nil
}

// SetTrackVolume sets a track's volume in [0,1].
func (e *Engine) SetTrackVolume(key models.TrackKey, v float64) error {
	if err := e.mixer.SetTrackVolume(key, v); err != nil {
		return err
	}
	e.saveMixer()
	return nil
}

// SetTrackPan sets a track's pan in [0,1].
func (e *Engine) SetTrackPan(key models.TrackKey, p float64) error {
	if err := e.mixer.SetTrackPan(key, p); err != nil {
		return err
	}
	e.saveMixer()
	return nil
}

// AdjustTrackVolume changes a track's volume by delta.
func (e *Engine) AdjustTrackVolume(key models.TrackKey, delta float64) error {
	t, ok := e.mixer.Snapshot().Track(key)
	if !ok {
		return fmt.Errorf("%w: %q", shared.ErrTrackNotFound, key)
	}
	return e.SetTrackVolume(key, t.Volume+delta)
}

// AdjustTrackPan moves a track's pan by delta.
func (e *Engine) AdjustTrackPan(key models.TrackKey, delta float64) error {
	t, ok := e.mixer.Snapshot().Track(key)
	if !ok {
		return fmt.Errorf("%w: %q", shared.ErrTrackNotFound, key)
	}
	return e.SetTrackPan(key, t.Pan+delta)
}

// SetMasterVolume sets the master volume. Zero mutes.
func (e *Engine) SetMasterVolume(v float64) {
	e.mixer.SetMasterVolume(v)
	e.saveMixer()
}

// AdjustMasterVolume changes the master volume by delta.
func (e *Engine) AdjustMasterVolume(delta float64) {
	e.SetMasterVolume(e.mixer.MasterVolume() + delta)
}

// ToggleMute flips mute without touching any stored volume.
func (e *Engine) ToggleMute() {
	e.mixer.ToggleMute()
	s := e.mixer.Snapshot()
	if s.Muted {
		e.send(mixerUpdate(s, "Muted"))
	} else {
		e.send(mixerUpdate(s, "Unmuted"))
	}
}

func (e *Engine) StartTimer() { e.timer.Start() }
func (e *Engine) PauseTimer() { e.timer.Pause() }
func (e *Engine) ResetTimer() { e.timer.Reset() }

// ToggleTimer starts an idle or paused timer and pauses a running one.
func (e *Engine) ToggleTimer() {
	if e.timer.State().Running {
		e.timer.Pause()
		return
	}
	e.timer.Start()
}

// SetMode switches the timer mode and remembers it.
func (e *Engine) SetMode(mode models.Mode) {
	e.timer.SetMode(mode)
	e.binding.SaveMode(e.timer.State().Mode)
}

// CycleMode switches to the next mode in display order.
func (e *Engine) CycleMode() {
	next := (e.timer.State().Mode + 1) % models.Mode(len(models.Modes))
	e.SetMode(next)
}

// SetDuration sets a mode's duration in minutes.
func (e *Engine) SetDuration(mode models.Mode, minutes int) {
	e.timer.SetDuration(mode, minutes)
	e.binding.SaveTimer(e.timer.Config())
}

// SetDurationInput applies raw user input as a duration. Non-numeric input is ignored.
func (e *Engine) SetDurationInput(mode models.Mode, raw string) {
	e.timer.SetDurationInput(mode, raw)
	e.binding.SaveTimer(e.timer.Config())
}

// AdjustDuration changes the current mode's duration by delta minutes.
func (e *Engine) AdjustDuration(delta int) {
	mode := e.timer.State().Mode
	e.SetDuration(mode, e.timer.Config().Minutes(mode)+delta)
}

func (e *Engine) SetAutoStart(enabled bool) {
	e.timer.SetAutoStart(enabled)
	e.binding.SaveTimer(e.timer.Config())
}

func (e *Engine) SetSessionsBeforeLongBreak(n int) {
	e.timer.SetSessionsBeforeLongBreak(n)
	e.binding.SaveTimer(e.timer.Config())
}

// SetShowPan toggles the pan controls.
func (e *Engine) SetShowPan(show bool) {
	e.ui.ShowPan = show
	e.binding.SaveUI(e.ui)
}

// SetPersistence turns preference saving on or off. Turning it off erases stored preferences;
// turning it on saves nothing until the next change.
func (e *Engine) SetPersistence(enabled bool) {
	e.binding.SetEnabled(enabled)
	e.send(preferencesUpdate(enabled))
}

// Close stops the timer and all tracks and writes pending preferences.
func (e *Engine) Close() {
	e.timer.Close()
	e.mixer.StopAll()
	e.binding.Sync()
}

func (e *Engine) saveMixer() {
	e.binding.SaveMixer(e.mixer.Preferences())
	e.send(mixerUpdate(e.mixer.Snapshot(), ""))
}

// onTrackStopped reports a track whose playback ended without a pause.
func (e *Engine) onTrackStopped(key models.TrackKey, err error) {
	state := e.mixer.Snapshot()
	label := string(key)
	if tr, ok := state.Track(key); ok {
		label = tr.Label
	}
	if err != nil {
		e.send(mixerUpdate(state, "%s stopped: %v", label, err))
		return
	}
	e.send(mixerUpdate(state, "%s stopped", label))
}

func (e *Engine) onTimer(state models.TimerState) {
	e.binding.Flush()

	prev := e.lastStatus
	e.lastStatus = state.Status
	switch {
	case state.Status == models.Finished && prev != models.Finished:
		e.send(finishedUpdate(state))
	case state.Status == models.Running && prev == models.Running:
		e.send(tickUpdate(state))
	default:
		e.send(timerUpdate(state))
	}
}

// send sends an update through the channel without blocking.
func (e *Engine) send(u Update) {
	if e.updates == nil {
		return
	}
	select {
	case e.updates <- u:
	default:
	}
}
