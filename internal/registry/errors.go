package registry

import (
	"errors"

	"github.com/bundlex-labs/bundlex/internal/document"
)

// Validation and lookup failures. Mutating operations wrap one of these
// with context; the registry is unchanged when they are returned.
var (
	ErrInvalidName        = errors.New("invalid bundle name")
	ErrInvalidVariant     = errors.New("invalid bundle variant")
	ErrNameUnavailable    = errors.New("bundle name unavailable")
	ErrBundleNotFound     = errors.New("bundle not found")
	ErrInvalidGUID        = errors.New("invalid asset identifier")
	ErrAssetUnresolvable  = errors.New("asset cannot be resolved")
	ErrAssetPathCollision = errors.New("asset path already in bundle")
	ErrTypeMismatch       = errors.New("asset type does not match bundle type")
)

// Load failures, shared with the document package.
var (
	ErrNoDocument          = document.ErrNotFound
	ErrCorruptDocument     = document.ErrCorrupt
	ErrUnsupportedDocument = document.ErrUnsupportedVersion
)
