// Package erasure describes the geometry of erasure-coded shred sets and the
// interfaces a recovery implementation must satisfy. The metadata layer only
// decides whether a set is recoverable; the actual encode/decode is supplied
// by the caller.
package erasure

// Config describes one erasure set: how many data shreds it protects and how
// many parity shreds guard them. Configs are value types and comparable.
type Config struct {
	numData   int
	numCoding int
}

// NewConfig returns the configuration of a set with numData data shreds and
// numCoding parity shreds.
func NewConfig(numData, numCoding int) Config {
	return Config{numData: numData, numCoding: numCoding}
}

// NumData returns the number of data shreds in the set.
func (c Config) NumData() int {
	return c.numData
}

// NumCoding returns the number of parity shreds in the set.
func (c Config) NumCoding() int {
	return c.numCoding
}

// TotalShreds returns the full size of the set, data plus parity.
func (c Config) TotalShreds() int {
	return c.numData + c.numCoding
}
