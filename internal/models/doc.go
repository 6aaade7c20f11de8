// Package models defines the domain types shared by the mixer, the timer and the preference layer.
//
// The package contains two categories of types:
//
// 1. Mixer types
//   - [Sound] : Catalog entry (key, label, source) used to build the mixer
//   - [Track] : Per-track volume, pan and play state
//   - [MixerState] : Master volume, mute flag and the tracks in catalog order
//
// 2. Timer types
//   - [Mode] : focus, short break or long break
//   - [Status] : idle, running, paused or finished
//   - [TimerConfig] : Clamped durations, long break cadence and auto-start
//   - [TimerState] : Read-only snapshot of the countdown
//
// Values here are plain data. Owning components hand out copies, never pointers into their state.
package models
