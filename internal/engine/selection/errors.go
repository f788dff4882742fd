package selection

import "errors"

// Host synchronization errors. They are logged, never returned.
var (
	// ErrHostNode indicates a host node that does not map to a leaf.
	ErrHostNode = errors.New("host node not in tree")

	// ErrHostElement indicates a leaf without a host element.
	ErrHostElement = errors.New("no host element for leaf")

	// ErrHostPanic indicates the host panicked during synchronization.
	ErrHostPanic = errors.New("host panicked")
)
