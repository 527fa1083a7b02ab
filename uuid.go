package uuid

import (
	"encoding/hex"
	"fmt"
)

// UUID represents a Universally Unique Identifier as defined by RFC 4122 and
// RFC 9562. The UUID is a 128-bit (16 byte) value; equality and ordering are
// defined over the raw bytes with no normalization.
type UUID [16]byte

// Version represents the UUID version
type Version byte

const (
	_ Version = iota
	VersionTimeBased
	VersionDCESecurity
	VersionNameBasedMD5
	VersionRandom
	VersionNameBasedSHA1
	VersionTimeReordered // UUIDv6
	VersionTimeSorted    // UUIDv7
	VersionCustom        // UUIDv8
)

// Variant represents the UUID variant. The constant values are the variant
// codes as they appear in the top bits of byte 8.
type Variant byte

const (
	VariantNCS       Variant = 0
	VariantRFC4122   Variant = 0b10
	VariantMicrosoft Variant = 0b110
	VariantFuture    Variant = 0b111
)

// Nil is the nil UUID (all zeros)
var Nil UUID

// Max is the maximum UUID (all ones), RFC 9562 section 5.10.
var Max = UUID{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// String returns the canonical string representation of the UUID
// in the format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	var buf [36]byte
	encodeHex(buf[:], u)
	return string(buf[:])
}

// encodeHex encodes UUID to its canonical hex representation
func encodeHex(dst []byte, u UUID) {
	hex.Encode(dst[0:8], u[0:4])
	dst[8] = '-'
	hex.Encode(dst[9:13], u[4:6])
	dst[13] = '-'
	hex.Encode(dst[14:18], u[6:8])
	dst[18] = '-'
	hex.Encode(dst[19:23], u[8:10])
	dst[23] = '-'
	hex.Encode(dst[24:36], u[10:16])
}

// Parse parses a UUID from its string representation.
//
// The accepted grammar is 32 hexadecimal digits (case-insensitive),
// optionally surrounded by a single pair of braces, with an optional hyphen
// after each completed group of 4 hex digits except the last:
//   - xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (canonical)
//   - {xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}
//   - xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx (without hyphens)
//   - xxxx-xxxx-xxxx-xxxx-xxxx-xxxx-xxxx-xxxx (any group boundary)
//
// Hyphens are never required and never allowed anywhere else. On failure the
// returned error is a *ParseError carrying the offending input.
func Parse(s string) (UUID, error) {
	var u UUID

	i := 0
	braces := false
	if len(s) > 0 && s[0] == '{' {
		braces = true
		i++
	}

	for b := 0; b < 16; b++ {
		if i+2 > len(s) {
			return Nil, &ParseError{Input: s}
		}
		hi := hexNibble(s[i])
		lo := hexNibble(s[i+1])
		if hi < 0 || lo < 0 {
			return Nil, &ParseError{Input: s}
		}
		u[b] = byte(hi<<4 | lo)
		i += 2
		// a single hyphen may follow each group of 4 hex digits, except
		// after the final byte
		if i < len(s) && s[i] == '-' && b%2 == 1 && b < 15 {
			i++
		}
	}

	if braces {
		if i >= len(s) || s[i] != '}' {
			return Nil, &ParseError{Input: s}
		}
		i++
	}

	if i != len(s) {
		return Nil, &ParseError{Input: s}
	}

	return u, nil
}

// hexNibble returns the value of a hex digit, or -1 for any other byte.
func hexNibble(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// MustParse is like Parse but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(s string) UUID {
	uuid, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("uuid: Parse(%q): %v", s, err))
	}
	return uuid
}

// Bytes returns the UUID as a byte slice. This is the 16-byte wire payload;
// no byte reordering is applied.
func (u UUID) Bytes() []byte {
	return u[:]
}

// FromBytes creates a UUID from a 16-byte wire payload.
func FromBytes(b []byte) (UUID, error) {
	var uuid UUID
	if len(b) != 16 {
		return uuid, ErrInvalidLength
	}
	copy(uuid[:], b)
	return uuid, nil
}

// MustFromBytes is like FromBytes but panics on error
func MustFromBytes(b []byte) UUID {
	uuid, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return uuid
}

// IsNil returns true if the UUID is the nil UUID (all zeros)
func (u UUID) IsNil() bool {
	return u == Nil
}
