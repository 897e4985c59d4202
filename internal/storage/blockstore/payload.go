package blockstore

import (
	"encoding/binary"
	"fmt"

	"github.com/LeJamon/goShredstore/internal/storage/blockstore/compression"
)

// Stored shred payloads carry a one-byte frame tag. Compressed frames are
// followed by the original length so decompression can size its output
// buffer exactly:
//
//	plain:      [0x00][payload]
//	compressed: [0x01][origLen u32 LE][lz4 block]
const (
	framePlain      byte = 0x00
	frameCompressed byte = 0x01
)

// minCompressSize is the smallest payload worth running through the
// compressor. Shorter payloads are stored plain.
const minCompressSize = 128

// lz4Codec decodes compressed frames regardless of the compressor the store
// was opened with, so records written under an earlier configuration stay
// readable.
var lz4Codec = &compression.LZ4Compressor{}

// packPayload frames a shred payload for storage, compressing it when the
// configured compressor actually saves at least 10%.
func (s *Store) packPayload(payload []byte) []byte {
	if s.compressor.Name() != "none" && len(payload) >= minCompressSize {
		compressed, err := s.compressor.Compress(payload)
		if err == nil && len(compressed) > 0 && len(compressed) < len(payload)*9/10 {
			framed := make([]byte, 5+len(compressed))
			framed[0] = frameCompressed
			binary.LittleEndian.PutUint32(framed[1:5], uint32(len(payload)))
			copy(framed[5:], compressed)
			return framed
		}
	}
	framed := make([]byte, 1+len(payload))
	framed[0] = framePlain
	copy(framed[1:], payload)
	return framed
}

// unpackPayload reverses packPayload.
func unpackPayload(stored []byte) ([]byte, error) {
	if len(stored) == 0 {
		return nil, fmt.Errorf("%w: empty record", ErrCorruptPayload)
	}
	switch stored[0] {
	case framePlain:
		return append([]byte(nil), stored[1:]...), nil
	case frameCompressed:
		if len(stored) < 5 {
			return nil, fmt.Errorf("%w: truncated frame header", ErrCorruptPayload)
		}
		origLen := binary.LittleEndian.Uint32(stored[1:5])
		payload, err := lz4Codec.Decompress(stored[5:], int(origLen))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("%w: unknown frame tag 0x%02x", ErrCorruptPayload, stored[0])
	}
}
