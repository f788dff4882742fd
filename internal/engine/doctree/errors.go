package doctree

import "errors"

// Errors returned by tree operations.
var (
	// ErrNodeRemoved indicates the node was removed from the tree.
	ErrNodeRemoved = errors.New("node removed")

	// ErrNotLeaf indicates a leaf operation was applied to a container.
	ErrNotLeaf = errors.New("not a leaf")

	// ErrNotContainer indicates a container operation was applied to a leaf
	// or to a container of the wrong family.
	ErrNotContainer = errors.New("not a container")

	// ErrOffsetOutOfRange indicates an offset outside [0, length].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a range whose end precedes its start.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrNotSplittable indicates the container cannot be split (table cells).
	ErrNotSplittable = errors.New("container cannot be split")

	// ErrNotIndentable indicates the container cannot take the requested indent.
	ErrNotIndentable = errors.New("container cannot be indented")

	// ErrNotIndented indicates there is no indentation to remove.
	ErrNotIndented = errors.New("container is not indented")

	// ErrRootImmutable indicates an attempt to remove or move the document root.
	ErrRootImmutable = errors.New("document root cannot be modified")
)
