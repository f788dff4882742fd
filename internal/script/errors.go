package script

import "errors"

var (
	// ErrScript wraps every failure raised while running a script.
	ErrScript = errors.New("script error")

	// ErrClosed is returned when running on a closed Runner.
	ErrClosed = errors.New("script runner is closed")
)
