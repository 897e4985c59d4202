// Package types holds the small value types shared across the ledger engine.
package types

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash256 is a 32-byte digest used to identify frozen slot state.
type Hash256 [32]byte

// Hash256FromData computes the SHA-256 digest of data.
func Hash256FromData(data []byte) Hash256 {
	return sha256.Sum256(data)
}

// Hash256FromHex parses a 64-character hex string into a Hash256.
func Hash256FromHex(s string) (Hash256, error) {
	var h Hash256
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != len(h) {
		return h, ErrBadHashLength
	}
	copy(h[:], b)
	return h, nil
}

// String returns the lowercase hex representation of the hash.
func (h Hash256) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is all zeroes.
func (h Hash256) IsZero() bool {
	return h == Hash256{}
}

// Bytes returns the hash as a byte slice copy.
func (h Hash256) Bytes() []byte {
	b := make([]byte, len(h))
	copy(b, h[:])
	return b
}
