package erasure

import (
	"context"
	"errors"
)

// Encoder produces the parity shards for a block of data according to some
// erasure scheme. Which shards are required to rebuild the original data is
// determined by the implementation.
type Encoder interface {
	Encode(ctx context.Context, data []byte) ([][]byte, error)
}

// Reconstructor rebuilds the original data of one erasure set from a
// sufficient subset of its shards.
//
// ReconstructData reports ErrIncompleteSet while more shards are still
// needed; a nil return means the data can be produced with a call to Data.
// Callers should pass each shard index at most once.
type Reconstructor interface {
	ReconstructData(ctx context.Context, idx int, shard []byte) error

	// Data appends the reconstructed data to dst. dataSize is required
	// because the final data shard may be zero padded.
	Data(dst []byte, dataSize int) ([]byte, error)
}

// ErrIncompleteSet is returned by a Reconstructor when a shard was accepted
// but the set still lacks enough shards to restore the original data.
var ErrIncompleteSet = errors.New("insufficient shards received to reconstruct data")
