// Package uuid implements the 128-bit UUID value type the way a database
// engine needs it: a fixed 16-byte value with byte-wise identity, text and
// binary codecs, a total byte order with seeded hashing, abbreviated-key
// sort support with adaptive cardinality estimation, and time-ordered
// (UUIDv7) and random (UUIDv4) generation.
//
// UUIDv7 values are naturally sortable by creation time, which makes them a
// good fit for:
//   - Database primary keys (improved B-tree performance)
//   - Distributed systems requiring time-ordered identifiers
//   - Event sourcing and audit logs
//
// Basic Usage:
//
//	// Generate a new UUIDv7
//	id, err := uuid.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(id.String())
//
//	// Parse a UUID from string
//	id, err := uuid.Parse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Extract the embedded timestamp, if the value carries one
//	if t, ok := id.Time(); ok {
//	    fmt.Println(t)
//	}
//
// Sorting large UUID columns:
//
// A sort engine can use AbbrevKey as a cheap machine-word proxy for the full
// value, breaking ties with Compare. A per-sort SortSupport tracks the
// cardinality of the proxies and tells the engine (ShouldAbort) when the
// column is so duplicate-heavy that the proxies are not worth the overhead.
//
// Thread Safety:
//
// Values, codecs, comparison and extraction are pure and safe for
// unsynchronized concurrent use. A Generator serializes its internal
// (timestamp, counter) state with a mutex, so one generator may be shared by
// any number of goroutines; SortSupport state belongs to a single sort and
// is not locked.
//
// Standards Compliance:
//
// This implementation follows RFC 4122 and RFC 9562. The text parser also
// accepts the looser legacy grammar (optional braces, an optional hyphen
// after any group of four hex digits) while output is always canonical.
package uuid
