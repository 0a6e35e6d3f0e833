package deps

import "errors"

// Sentinel errors for snapshot construction and queries.
var (
	// ErrMalformedRecord is returned when a raw record is missing its
	// package key or one of its dependencies is missing a key. A snapshot
	// built from malformed input cannot be partially trusted, so
	// normalization aborts on the first malformed record.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnknownPackage is returned when a query root, or a dependency key
	// referenced by an edge, has no entry in the snapshot's info index.
	ErrUnknownPackage = errors.New("unknown package key")

	// ErrInvalidSpecifier is returned when a requirement string cannot be
	// parsed as a PEP 440 specifier set.
	ErrInvalidSpecifier = errors.New("invalid version specifier")

	// ErrInvalidVersion is returned when an installed version string cannot
	// be parsed as a PEP 440 version.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrUnsupportedFormat is returned by ParseFormat for unrecognized
	// output format selectors.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
