// Package playback defines the media playback primitive consumed by the audio controllers and
// provides two backends: [Exec], which drives an external player process per handle, and
// [Silent], which only records state.
package playback

// Player creates playback handles from opaque source references.
type Player interface {
	Create(source string) (Handle, error)
}

// Handle controls one playable source.
//
// Play must not block. A refusal (missing binary, autoplay policy) is returned immediately and
// wraps shared.ErrPlaybackDenied.
type Handle interface {
	Play() error
	Pause()
	SetVolume(v float64)
	SetLoop(loop bool)
}

// Panner is implemented by handles that support stereo balance in [-1,1].
type Panner interface {
	SetPan(balance float64)
}

// Watcher is implemented by handles whose playback can end without a Pause, such as a player
// process that exits. The OnExit callback runs on the handle's own goroutine; err is nil for a
// clean exit and wraps shared.ErrPlaybackDenied otherwise. Running reports whether playback is
// live right now.
type Watcher interface {
	OnExit(fn func(err error))
	Running() bool
}
