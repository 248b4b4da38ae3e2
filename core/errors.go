package core

import "errors"

// Sentinel errors shared by every index family. Callers should compare
// against these with errors.Is rather than matching on message text.
var (
	// ErrInvalidArgument reports a malformed input: a nil/empty vector,
	// a non-positive k, or a zero-value record. The index constructors
	// never return it: each New replaces a non-positive parameter with
	// its default.
	ErrInvalidArgument = errors.New("cbir: invalid argument")

	// ErrDimensionMismatch reports two vectors, or a vector and an
	// index, disagreeing on dimensionality.
	ErrDimensionMismatch = errors.New("cbir: dimension mismatch")

	// ErrIndexNotReady reports a query against a tree or LSH index that
	// has not been built yet. The linear index never returns this; an
	// empty linear index simply yields no results.
	ErrIndexNotReady = errors.New("cbir: index not ready")
)
