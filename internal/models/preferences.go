package models

// TrackPreference is the persisted part of a track. Play state is never stored.
type TrackPreference struct {
	Volume float64 `json:"volume"`
	Pan    float64 `json:"pan"`
}

// MixerPreferences is the persisted projection of [MixerState] without the mute and play flags.
// A nil MasterVolume means the record did not carry one.
type MixerPreferences struct {
	MasterVolume *float64                     `json:"master_volume,omitempty"`
	Tracks       map[TrackKey]TrackPreference `json:"tracks"`
}

// UIPreferences holds presentation toggles.
type UIPreferences struct {
	ShowPan bool `json:"show_pan"`
}
