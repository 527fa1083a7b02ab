package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"
)

// maxSequence is the largest value of the 18-bit monotonic counter.
const maxSequence = 0x3ffff

// Generator produces UUIDv7 (time-ordered) and UUIDv4 (random) values.
//
// UUIDv7 layout:
//   - bytes 0-5: 48-bit big-endian Unix timestamp in milliseconds
//   - byte 6:    version nibble 0b0111, then the top 4 bits of an 18-bit
//     monotonic counter
//   - byte 7:    the next 8 counter bits
//   - byte 8:    variant bits 0b10, then the low 6 counter bits
//   - bytes 9-15: cryptographically strong random data
//
// The counter is reseeded with 17 random bits on every fresh millisecond and
// incremented when the clock has not advanced (or has moved backward). A
// counter overflow bumps the logical timestamp one millisecond ahead of real
// time, so sustained generation above ~262k values per millisecond may use
// timestamps slightly in the future. Values from one Generator are strictly
// increasing under the raw-byte ordering, even across clock regressions.
type Generator struct {
	mu                sync.Mutex
	previousTimestamp uint64
	sequenceCounter   uint32 // 18 bits
	randReader        io.Reader
}

// NewGenerator creates a new generator with crypto/rand as the random source
func NewGenerator() *Generator {
	return &Generator{
		randReader: rand.Reader,
	}
}

// NewGeneratorWithReader creates a new generator with a custom random source.
// This is primarily useful for testing with deterministic random sources.
func NewGeneratorWithReader(r io.Reader) *Generator {
	return &Generator{
		randReader: r,
	}
}

// New generates a new UUIDv7 with the current timestamp.
// This method is thread-safe and ensures monotonic ordering of UUIDs
// generated by this Generator.
func (g *Generator) New() (UUID, error) {
	return g.NewWithTime(time.Now())
}

// NewWithTime generates a new UUIDv7 using t as the wall-clock reading.
// This method is thread-safe and ensures monotonic ordering.
func (g *Generator) NewWithTime(t time.Time) (UUID, error) {
	var uuid UUID

	// A pre-1970 clock reading would wrap the unsigned conversion into a
	// huge timestamp and poison the generator state for good. Clamp it to
	// the epoch; the regression branch below then keeps ordering intact.
	ms := t.UnixMilli()
	if ms < 0 {
		ms = 0
	}
	tms := uint64(ms)

	g.mu.Lock()
	defer g.mu.Unlock()

	if tms <= g.previousTimestamp {
		// The clock stalled or leapt backward; the counter supplies the
		// sub-millisecond ordering.
		g.sequenceCounter++
		if g.sequenceCounter > maxSequence {
			// Counter overflow advances the logical clock past real time.
			g.sequenceCounter = 0
			g.previousTimestamp++
		}
		tms = g.previousTimestamp
	} else {
		// Fresh millisecond: reseed the counter with random bits, keeping
		// the top of the 18 bits clear so a full increment run is available
		// before overflow.
		var seed [4]byte
		if _, err := io.ReadFull(g.randReader, seed[:]); err != nil {
			return Nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
		}
		g.sequenceCounter = binary.BigEndian.Uint32(seed[:]) & (maxSequence >> 1)
		g.previousTimestamp = tms
	}

	// 48-bit timestamp, big-endian
	uuid[0] = byte(tms >> 40)
	uuid[1] = byte(tms >> 32)
	uuid[2] = byte(tms >> 24)
	uuid[3] = byte(tms >> 16)
	uuid[4] = byte(tms >> 8)
	uuid[5] = byte(tms)

	// counter bits 17-14 and 13-6; byte 6's low nibble keeps the counter,
	// the version nibble is merged below
	uuid[6] = byte(g.sequenceCounter >> 14)
	uuid[7] = byte(g.sequenceCounter >> 6)

	// Random tail. Byte 8 is filled too but fully rebuilt below so the
	// random data cannot clobber the counter's low 6 bits.
	if _, err := io.ReadFull(g.randReader, uuid[8:]); err != nil {
		return Nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}

	// version field, top four bits are 0, 1, 1, 1
	uuid[6] = (uuid[6] & 0x0f) | 0x70
	// variant field 0b10, then the counter's low 6 bits
	uuid[8] = 0x80 | byte(g.sequenceCounter&0x3f)

	return uuid, nil
}

// Must is a helper that wraps a call to a function returning (UUID, error)
// and panics if the error is non-nil. It is intended for use in variable
// initializations such as:
//
//	var id = uuid.Must(generator.New())
func Must(uuid UUID, err error) UUID {
	if err != nil {
		panic(err)
	}
	return uuid
}

// defaultGenerator is the package-level generator used by the New* functions
var defaultGenerator = NewGenerator()

// New generates a new UUIDv7 using the default generator.
// This is a convenience function that uses the package-level generator.
func New() (UUID, error) {
	return defaultGenerator.New()
}

// NewV7 is an alias for New() for explicit version specification
func NewV7() (UUID, error) {
	return defaultGenerator.New()
}
