// Package errors provides error handling for schemats.
//
// It re-exports github.com/cockroachdb/errors so every package wraps,
// annotates and inspects errors the same way:
//
//	if err := load(path); err != nil {
//	    return errors.Wrapf(err, "failed to load %s", path)
//	}
//
//	return errors.WithHint(err, "run 'schemats generate' to refresh the output")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint       = crdb.WithHint
	WithHintf      = crdb.WithHintf
	WithDetail     = crdb.WithDetail
	WithDetailf    = crdb.WithDetailf
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinels shared across the generator. Typed errors in typegen are marked
// with these so callers can branch with errors.Is without importing typegen.
var (
	// ErrUnresolvedReference marks a field pointing at a type that no root declares
	ErrUnresolvedReference = New("unresolved reference")

	// ErrNameCollision marks emitted names that cannot be disambiguated
	ErrNameCollision = New("name collision")

	// ErrUnsupportedType marks a field type the target language cannot express
	ErrUnsupportedType = New("unsupported type")

	// ErrInvalidDescriptor marks malformed schema descriptor input
	ErrInvalidDescriptor = New("invalid descriptor")

	// ErrOutOfDate marks generated output that no longer matches its inputs
	ErrOutOfDate = New("generated output is out of date")
)

// IsGenerationError reports whether err is one of the fatal generation errors.
func IsGenerationError(err error) bool {
	return err != nil && IsAny(err, ErrUnresolvedReference, ErrNameCollision, ErrUnsupportedType)
}

// NewInvalidDescriptorError creates an invalid-descriptor error with a formatted message
func NewInvalidDescriptorError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidDescriptor)
}
