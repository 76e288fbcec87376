package document

import "errors"

var (
	// ErrNotFound is returned when no document exists at the given path.
	ErrNotFound = errors.New("registry document not found")

	// ErrCorrupt is returned when the document cannot be parsed or its
	// top-level shape is wrong.
	ErrCorrupt = errors.New("registry document is corrupt")

	// ErrUnsupportedVersion is returned for documents written by a newer,
	// incompatible format version.
	ErrUnsupportedVersion = errors.New("registry document version is not supported")
)
