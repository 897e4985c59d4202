package types

import "errors"

// ErrBadHashLength is returned when decoding a hash of the wrong size.
var ErrBadHashLength = errors.New("types: hash must be exactly 32 bytes")
