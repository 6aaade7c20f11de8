package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrConfiguration = fmt.Errorf("configuration error")

	// Mixer and playback errors
	ErrTrackNotFound  = fmt.Errorf("track not found")
	ErrPlaybackDenied = fmt.Errorf("playback denied")

	// Persistence errors
	ErrPersistenceUnavailable = fmt.Errorf("persistence unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
