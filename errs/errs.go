// Package errs defines the sentinel errors returned by osudb packages.
//
// Callers match them with errors.Is; decoders wrap them with positional
// context (field name, record index, byte counts).
package errs

import "errors"

// Decode errors. All of them abort the decode of the current file.
var (
	// ErrUnexpectedEndOfInput is returned when fewer bytes remain than a read requires.
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	// ErrInvalidStringMarker is returned when a string presence byte is neither 0x00 nor 0x0B.
	ErrInvalidStringMarker = errors.New("invalid string marker")
	// ErrMalformedVarint is returned when a LEB128 value does not fit in 64 bits.
	ErrMalformedVarint = errors.New("malformed varint")
	// ErrMalformedStarRatingEntry is returned when a star rating entry marker byte mismatches.
	ErrMalformedStarRatingEntry = errors.New("malformed star rating entry")
	// ErrUnsupportedFormatVersion is returned for database files older than the supported floor.
	ErrUnsupportedFormatVersion = errors.New("unsupported format version")
	// ErrDeclaredLengthExceedsInput is returned when a count or length prefix cannot be satisfied
	// by the bytes that remain.
	ErrDeclaredLengthExceedsInput = errors.New("declared length exceeds input")
)

// Query errors.
var (
	// ErrInvalidModifierCombination is returned when mutually exclusive mods are combined
	// (Easy with HardRock, HalfTime with DoubleTime).
	ErrInvalidModifierCombination = errors.New("invalid modifier combination")
	// ErrRatingNotFound is returned when a star rating table has no entry for a legal combination.
	ErrRatingNotFound = errors.New("star rating not found")
	// ErrInvalidMods is returned when a textual mod list cannot be parsed.
	ErrInvalidMods = errors.New("invalid mods")
)

// Encode errors.
var (
	// ErrValueOutOfRange is returned when a value cannot be represented by its wire type.
	ErrValueOutOfRange = errors.New("value out of range")
)

// Bounded substream errors.
var (
	ErrSectionClosed    = errors.New("section closed")
	ErrMarkNotSupported = errors.New("mark not supported by underlying reader")
	ErrMarkNotSet       = errors.New("reset without mark")
)

// Library and file errors.
var (
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	ErrHashCollision          = errors.New("hash collision")
	ErrDuplicateBeatmap       = errors.New("duplicate beatmap hash")
	ErrMissingHash            = errors.New("beatmap has no hash")
)
