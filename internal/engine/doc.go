// package engine composes the mixer, the timer and the preference binding into the single object
// the presentation layer talks to.
//
// The [Engine] is single-threaded: every method and every clock callback must run on the same
// goroutine (the clock loop's consumer). State changes are reported as [Update] values sent
// without blocking on an optional channel; a full channel drops the update, and consumers
// recover by calling [Engine.Snapshot].
//
// Committed configuration (volumes, pans, durations, mode, UI toggles) is pushed to the binding
// after each mutation. Play state and mute are never persisted.
package engine
