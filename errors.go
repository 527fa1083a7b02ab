package uuid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat indicates that a UUID text representation is
	// syntactically invalid. Recoverable: a batch loader can report the bad
	// row and keep going.
	ErrInvalidFormat = errors.New("uuid: invalid UUID format")

	// ErrInvalidLength indicates that a UUID byte payload is not exactly
	// 16 bytes. Recoverable, same as ErrInvalidFormat.
	ErrInvalidLength = errors.New("uuid: invalid UUID length (expected 16 bytes)")

	// ErrRandomSource indicates that the cryptographic random source could
	// not supply bytes. Fatal: generation must not proceed with predictable
	// bytes, so callers should abort the surrounding operation rather than
	// retry row by row.
	ErrRandomSource = errors.New("uuid: random source unavailable")
)

// ParseError is the error returned by Parse. It wraps ErrInvalidFormat and
// carries the offending input so callers can report exactly which value was
// rejected.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("uuid: invalid input syntax for type uuid: %q", e.Input)
}

func (e *ParseError) Unwrap() error { return ErrInvalidFormat }
