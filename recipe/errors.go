package recipe

import "go.trai.ch/zerr"

var (
	// ErrUnsupportedMPIStack is returned when the resolved MPI provider has no
	// MPI_STACK name.
	ErrUnsupportedMPIStack = zerr.New("unsupported MPI stack")

	// ErrUnknownVersion is returned for a version label the recipe does not declare.
	ErrUnknownVersion = zerr.New("unknown version")

	// ErrUnknownVariant is returned for a variant name the recipe does not declare.
	ErrUnknownVariant = zerr.New("unknown variant")

	// ErrInvalidVariant is returned when a variant value is out of range or the
	// variant does not apply to the selected version.
	ErrInvalidVariant = zerr.New("invalid variant value")

	// ErrConflict is returned when a resolved state matches a declared conflict.
	ErrConflict = zerr.New("conflicting build state")

	// ErrMissingPrefix is returned when a dependency install prefix is needed
	// but was not resolved.
	ErrMissingPrefix = zerr.New("missing dependency prefix")

	// ErrInvalidRecipe is returned by Validate.
	ErrInvalidRecipe = zerr.New("invalid recipe")

	// ErrInvalidPredicate is returned for a malformed when clause.
	ErrInvalidPredicate = zerr.New("invalid predicate")
)
