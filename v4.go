package uuid

import (
	"fmt"
	"io"
)

// NewRandom generates a UUIDv4: all 16 bytes are filled from the generator's
// random source, then the version and variant bits are overwritten. A failure
// of the random source is reported as ErrRandomSource and should be treated
// as fatal by the caller.
func (g *Generator) NewRandom() (UUID, error) {
	var uuid UUID
	if _, err := io.ReadFull(g.randReader, uuid[:]); err != nil {
		return Nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}

	// version field, top four bits are 0, 1, 0, 0
	uuid[6] = (uuid[6] & 0x0f) | 0x40
	// variant field, top two bits are 1, 0
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid, nil
}

// NewV4 generates a UUIDv4 (random) using the default generator.
func NewV4() (UUID, error) {
	return defaultGenerator.NewRandom()
}
