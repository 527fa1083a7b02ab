package uuid

import "time"

// gregorianToUnix is the number of 100-nanosecond intervals between the
// Gregorian calendar epoch (1582-10-15) and the Unix epoch (1970-01-01).
const gregorianToUnix = 122192928000000000

// Variant returns the variant code encoded in the top bits of byte 8.
// It can return only VariantNCS (0), VariantRFC4122 (0b10),
// VariantMicrosoft (0b110) and VariantFuture (0b111).
func (u UUID) Variant() Variant {
	nibble := u[8] >> 4
	switch {
	case nibble < 0x8:
		return VariantNCS
	case nibble < 0xc:
		return VariantRFC4122
	case nibble < 0xe:
		return VariantMicrosoft
	default:
		return VariantFuture
	}
}

// Version returns the version nibble of byte 6. The nibble is only
// meaningful under the RFC variant; for any other variant ok is false and
// the version is absent, not an error.
func (u UUID) Version() (Version, bool) {
	if u[8]&0xc0 != 0x80 {
		return 0, false
	}
	return Version(u[6] >> 4), true
}

// Timestamp extracts the Unix timestamp in milliseconds from a UUIDv7.
// ok is false for any other version or variant.
func (u UUID) Timestamp() (int64, bool) {
	if v, ok := u.Version(); !ok || v != VersionTimeSorted {
		return 0, false
	}
	return int64(timestampV7(u)), true
}

// Time extracts the embedded timestamp from a version 1, 6 or 7 UUID.
// For any other version, or for a non-RFC variant, ok is false: absence is
// informational, never an error, since the value may follow a foreign
// format entirely.
func (u UUID) Time() (time.Time, bool) {
	v, ok := u.Version()
	if !ok {
		return time.Time{}, false
	}
	switch v {
	case VersionTimeSorted:
		return time.UnixMilli(int64(timestampV7(u))).UTC(), true
	case VersionTimeBased:
		return gregorianTime(timestampV1(u)), true
	case VersionTimeReordered:
		return gregorianTime(timestampV6(u)), true
	}
	return time.Time{}, false
}

// gregorianTime converts a count of 100ns intervals since 1582-10-15 into a
// time.Time. Integer arithmetic only; seconds and the sub-second remainder
// are split first so a full 60-bit tick count cannot overflow int64
// nanoseconds.
func gregorianTime(ticks uint64) time.Time {
	rem := int64(ticks) - gregorianToUnix
	return time.Unix(rem/1e7, (rem%1e7)*100).UTC()
}

// timestampV7 reads the 48-bit big-endian millisecond timestamp from
// bytes 0-5.
func timestampV7(u UUID) uint64 {
	return uint64(u[0])<<40 |
		uint64(u[1])<<32 |
		uint64(u[2])<<24 |
		uint64(u[3])<<16 |
		uint64(u[4])<<8 |
		uint64(u[5])
}

// timestampV1 reassembles the 60-bit v1 timestamp (100ns intervals since the
// Gregorian epoch): time_low in bytes 0-3, time_mid in bytes 4-5, time_high
// in the low nibble of byte 6 and byte 7.
func timestampV1(u UUID) uint64 {
	return uint64(u[0])<<24 |
		uint64(u[1])<<16 |
		uint64(u[2])<<8 |
		uint64(u[3]) |
		uint64(u[4])<<40 |
		uint64(u[5])<<32 |
		uint64(u[6]&0x0f)<<56 |
		uint64(u[7])<<48
}

// timestampV6 reassembles the 60-bit v6 timestamp, which stores the same
// field as v1 but in descending bit order: bytes 0-5 hold the high 48 bits,
// the low nibble of byte 6 and byte 7 hold the low 12.
func timestampV6(u UUID) uint64 {
	return uint64(u[0])<<52 |
		uint64(u[1])<<44 |
		uint64(u[2])<<36 |
		uint64(u[3])<<28 |
		uint64(u[4])<<20 |
		uint64(u[5])<<12 |
		uint64(u[6]&0x0f)<<8 |
		uint64(u[7])
}
