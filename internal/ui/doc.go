// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views, cycled with tab:
//  1. [MixerView] : Toggle tracks, set track and master volume, pan and mute
//  2. [TimerView] : Run the Pomodoro timer and edit durations
//  3. [SettingsView] : Opt in to saving preferences and show or hide pan controls
//
// The (view) [Model] owns the engine for the lifetime of the program. Clock callbacks are
// delivered as messages by a command that waits on the clock loop, so every engine call runs
// inside Update on bubbletea's goroutine. Engine updates arrive the same way through a channel.
package ui
