// SPDX-License-Identifier: Apache-2.0

package catalog

import "errors"

// Sentinel errors returned by catalog operations. Callers match them with
// errors.Is; operations wrap them with the offending path or identifier.
var (
	// ErrParse is returned when the source text is not a valid document.
	ErrParse = errors.New("malformed catalog document")

	// ErrEmptyInput is returned when the source text is blank.
	ErrEmptyInput = errors.New("catalog document is empty")

	// ErrUnsupportedShape is returned when the top-level value is neither a
	// mapping nor a sequence.
	ErrUnsupportedShape = errors.New("top-level value must be a mapping or a sequence")

	// ErrNotFound is returned when an identifier names no record.
	ErrNotFound = errors.New("record not found")

	// ErrOutOfRange is returned when a positional identifier is outside the
	// sequence.
	ErrOutOfRange = errors.New("identifier out of range")

	// ErrUnsupportedIdentifierType is returned when an identifier field holds
	// something other than a string or a number.
	ErrUnsupportedIdentifierType = errors.New("identifier must be a string or a number")

	// ErrRemapCollision is returned when a rename table maps two keys onto
	// the same name.
	ErrRemapCollision = errors.New("rename table collision")
)
