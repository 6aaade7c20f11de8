package models

// TrackKey is the stable identity of a track in the catalog.
type TrackKey string

const (
	DefaultTrackVolume  = 0.7
	DefaultTrackPan     = 0.5
	DefaultMasterVolume = 0.8
)

// Sound is a catalog entry. Source is an opaque reference handed to the playback backend.
type Sound struct {
	Key    TrackKey `json:"key"`
	Label  string   `json:"label"`
	Source string   `json:"source"`
}

// Track is the mixer's view of one looping sound.
type Track struct {
	Key     TrackKey `json:"key"`
	Label   string   `json:"label"`
	Source  string   `json:"source"`
	Volume  float64  `json:"volume"`
	Pan     float64  `json:"pan"`
	Playing bool     `json:"playing"`
}

// MixerState is a snapshot of the mixer.
type MixerState struct {
	MasterVolume float64 `json:"master_volume"`
	Muted        bool    `json:"muted"`
	Tracks       []Track `json:"tracks"`
}

// Track returns the track with the given key.
func (s MixerState) Track(key TrackKey) (Track, bool) {
	for _, t := range s.Tracks {
		if t.Key == key {
			return t, true
		}
	}
	return Track{}, false
}

// EffectiveGain returns the gain a track plays at, or 0 for unknown keys.
func (s MixerState) EffectiveGain(key TrackKey) float64 {
	t, ok := s.Track(key)
	if !ok {
		return 0
	}
	return EffectiveGain(t.Volume, s.MasterVolume, s.Muted)
}

// EffectiveGain combines track volume, master volume and mute. The result is always in [0,1].
func EffectiveGain(volume, master float64, muted bool) float64 {
	master = Clamp01(master)
	if muted || master == 0 {
		return 0
	}
	return Clamp01(volume) * master
}

// Clamp01 clamps v to [0,1]. NaN clamps to 0.
func Clamp01(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// DefaultCatalog returns the built-in sound catalog.
func DefaultCatalog() []Sound {
	return []Sound{
		{Key: "chatter", Label: "Café Chatter", Source: "cafe-chatter.mp3"},
		{Key: "live-guitar", Label: "Café With Live Guitar", Source: "cafe-live-guitar.wav"},
		{Key: "espresso", Label: "Espresso Machine", Source: "espresso.wav"},
		{Key: "fireplace", Label: "Fireplace", Source: "fireplace.wav"},
		{Key: "preparing-drinks", Label: "Preparing Drinks", Source: "preparing-drinks.wav"},
		{Key: "rainy-day", Label: "Rainy Day", Source: "rainy-day.wav"},
		{Key: "sunny-day", Label: "Sunny Day", Source: "sunny-day.wav"},
		{Key: "typing", Label: "Typing", Source: "typing.mp3"},
		{Key: "subway-station", Label: "Subway Station", Source: "subway-station.wav"},
	}
}
