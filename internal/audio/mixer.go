package audio

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cafecloud/internal/clock"
	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/playback"
	"github.com/desertthunder/cafecloud/internal/shared"
)

// Mixer owns the catalog tracks, the master volume and the mute flag.
//
// Every mutation is synchronous and must be called from a single goroutine.
type Mixer struct {
	player playback.Player
	logger *log.Logger
	clock  clock.Clock
	onStop func(models.TrackKey, error)

	defaultVolume float64
	defaultPan    float64

	master      float64
	muted       bool
	tracks      []models.Track
	controllers []*TrackController
	index       map[models.TrackKey]int
	initialized bool
}

// Option configures a [Mixer].
type Option func(*Mixer)

// WithDefaults sets the initial volume and pan of every track.
func WithDefaults(volume, pan float64) Option {
	return func(m *Mixer) {
		m.defaultVolume = models.Clamp01(volume)
		m.defaultPan = models.Clamp01(pan)
	}
}

// WithMasterVolume sets the initial master volume.
func WithMasterVolume(v float64) Option {
	return func(m *Mixer) {
		m.master = models.Clamp01(v)
		m.muted = m.master == 0
	}
}

// WithClock makes the mixer watch its tracks. Playback that ends on its own is delivered through
// clk and marks the track stopped.
func WithClock(clk clock.Clock) Option {
	return func(m *Mixer) { m.clock = clk }
}

// WithStopObserver is called after a track stopped on its own.
func WithStopObserver(fn func(models.TrackKey, error)) Option {
	return func(m *Mixer) { m.onStop = fn }
}

// NewMixer creates an empty mixer. Call [Mixer.Initialize] before use.
func NewMixer(player playback.Player, logger *log.Logger, opts ...Option) *Mixer {
	m := &Mixer{
		player:        player,
		logger:        logger,
		defaultVolume: models.DefaultTrackVolume,
		defaultPan:    models.DefaultTrackPan,
		master:        models.DefaultMasterVolume,
		index:         make(map[models.TrackKey]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize creates one stopped track per catalog entry, in order.
//
// Empty or duplicate keys, a failing backend and a second call are configuration errors. On
// error no track is created.
func (m *Mixer) Initialize(catalog []models.Sound) error {
	if m.initialized {
		return fmt.Errorf("%w: mixer already initialized", shared.ErrConfiguration)
	}

	seen := make(map[models.TrackKey]bool, len(catalog))
	for i, s := range catalog {
		if s.Key == "" {
			return fmt.Errorf("%w: catalog entry %d has an empty key", shared.ErrConfiguration, i)
		}
		if seen[s.Key] {
			return fmt.Errorf("%w: duplicate track key %q", shared.ErrConfiguration, s.Key)
		}
		seen[s.Key] = true
	}

	tracks := make([]models.Track, 0, len(catalog))
	controllers := make([]*TrackController, 0, len(catalog))
	for _, s := range catalog {
		ctrl, err := NewTrackController(m.player, s.Source, true, m.logger.With("track", s.Key))
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrConfiguration, err)
		}
		ctrl.SetPan(m.defaultPan)

		tracks = append(tracks, models.Track{
			Key:    s.Key,
			Label:  s.Label,
			Source: s.Source,
			Volume: m.defaultVolume,
			Pan:    m.defaultPan,
		})
		controllers = append(controllers, ctrl)
	}

	for i, t := range tracks {
		m.index[t.Key] = i
	}
	m.tracks = tracks
	m.controllers = controllers
	m.initialized = true

	if m.clock != nil {
		for i, ctrl := range controllers {
			ctrl.Watch(m.post, func(err error) { m.stopped(i, err) })
		}
	}

	m.logger.Debug("mixer initialized", "tracks", len(tracks))
	return nil
}

// TogglePlay flips the play state of a track. A refused play leaves the track stopped and is
// not an error.
func (m *Mixer) TogglePlay(key models.TrackKey) error {
	i, err := m.lookup(key)
	if err != nil {
		return err
	}

	ctrl := m.controllers[i]
	if ctrl.Playing() {
		ctrl.Pause()
	} else {
		ctrl.SetVolume(m.gain(i))
		ctrl.Play()
	}
	m.tracks[i].Playing = ctrl.Playing()

	m.logger.Debug("track toggled", "track", key, "playing", m.tracks[i].Playing)
	return nil
}

// SetTrackVolume stores the clamped volume and pushes the new gain when the track is playing.
func (m *Mixer) SetTrackVolume(key models.TrackKey, v float64) error {
	i, err := m.lookup(key)
	if err != nil {
		return err
	}
	m.tracks[i].Volume = models.Clamp01(v)
	m.push(i)
	return nil
}

// SetTrackPan stores the clamped pan and applies it to the controller.
func (m *Mixer) SetTrackPan(key models.TrackKey, p float64) error {
	i, err := m.lookup(key)
	if err != nil {
		return err
	}
	m.tracks[i].Pan = models.Clamp01(p)
	m.controllers[i].SetPan(m.tracks[i].Pan)
	return nil
}

// SetMasterVolume clamps v, sets muted to v == 0 and updates every playing track.
func (m *Mixer) SetMasterVolume(v float64) {
	m.master = models.Clamp01(v)
	m.muted = m.master == 0
	m.pushAll()
}

// ToggleMute flips the mute flag. Stored volumes are left untouched.
func (m *Mixer) ToggleMute() {
	m.muted = !m.muted
	m.pushAll()
}

func (m *Mixer) MasterVolume() float64 { return m.master }
func (m *Mixer) Muted() bool           { return m.muted }

// EffectiveGain returns the gain the track plays at.
func (m *Mixer) EffectiveGain(key models.TrackKey) (float64, error) {
	i, err := m.lookup(key)
	if err != nil {
		return 0, err
	}
	return m.gain(i), nil
}

// Snapshot returns a copy of the mixer state.
func (m *Mixer) Snapshot() models.MixerState {
	tracks := make([]models.Track, len(m.tracks))
	copy(tracks, m.tracks)
	return models.MixerState{MasterVolume: m.master, Muted: m.muted, Tracks: tracks}
}

// Preferences returns the persisted projection of the mixer.
func (m *Mixer) Preferences() models.MixerPreferences {
	master := m.master
	p := models.MixerPreferences{
		MasterVolume: &master,
		Tracks:       make(map[models.TrackKey]models.TrackPreference, len(m.tracks)),
	}
	for _, t := range m.tracks {
		p.Tracks[t.Key] = models.TrackPreference{Volume: t.Volume, Pan: t.Pan}
	}
	return p
}

// ApplyPreferences restores master volume and per-track volume and pan. Unknown keys are ignored
// and a record without a master volume keeps the current one.
func (m *Mixer) ApplyPreferences(p models.MixerPreferences) {
	for key, tp := range p.Tracks {
		i, ok := m.index[key]
		if !ok {
			m.logger.Debug("ignoring stored preference for unknown track", "track", key)
			continue
		}
		m.tracks[i].Volume = models.Clamp01(tp.Volume)
		m.tracks[i].Pan = models.Clamp01(tp.Pan)
		m.controllers[i].SetPan(m.tracks[i].Pan)
	}
	if p.MasterVolume != nil {
		m.SetMasterVolume(*p.MasterVolume)
	}
}

// StopAll pauses every playing track.
func (m *Mixer) StopAll() {
	for i, ctrl := range m.controllers {
		ctrl.Pause()
		m.tracks[i].Playing = false
	}
}

func (m *Mixer) post(fn func()) {
	m.clock.ScheduleOnce(0, fn)
}

func (m *Mixer) stopped(i int, err error) {
	m.tracks[i].Playing = false
	key := m.tracks[i].Key
	if err != nil {
		m.logger.Warn("track stopped unexpectedly", "track", key, "error", err)
	} else {
		m.logger.Info("track ended", "track", key)
	}
	if m.onStop != nil {
		m.onStop(key, err)
	}
}

func (m *Mixer) lookup(key models.TrackKey) (int, error) {
	i, ok := m.index[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", shared.ErrTrackNotFound, key)
	}
	return i, nil
}

func (m *Mixer) gain(i int) float64 {
	return models.EffectiveGain(m.tracks[i].Volume, m.master, m.muted)
}

func (m *Mixer) push(i int) {
	if m.controllers[i].Playing() {
		m.controllers[i].SetVolume(m.gain(i))
	}
}

func (m *Mixer) pushAll() {
	for i := range m.controllers {
		m.push(i)
	}
}
