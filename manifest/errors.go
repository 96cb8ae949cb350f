package manifest

import "errors"

var (
	// ErrIncompatibleVersion is returned for unsupported manifest versions.
	ErrIncompatibleVersion = errors.New("manifest: incompatible version")

	// ErrNotFound is returned when no manifest has been committed.
	ErrNotFound = errors.New("manifest: not found")

	// ErrCorrupt is returned when a stored manifest fails its integrity check.
	ErrCorrupt = errors.New("manifest: corrupt")
)
