package meta

import "github.com/LeJamon/goShredstore/internal/types"

// FrozenHashVersioned is the versioned record of a slot's frozen state hash.
// The interface is sealed to this package, and every variant must implement
// the full accessor set, so adding a format version without extending the
// accessors does not compile.
type FrozenHashVersioned interface {
	// FrozenHash returns the state hash computed when the slot was frozen.
	FrozenHash() types.Hash256
	// IsDuplicateConfirmed reports whether the cluster confirmed this
	// exact version of the slot.
	IsDuplicateConfirmed() bool

	// frozenHashVersion is the variant's wire tag.
	frozenHashVersion() uint32
}

const frozenHashVersionCurrent uint32 = 0

// FrozenHashStatus is the current frozen hash record format.
type FrozenHashStatus struct {
	Hash               types.Hash256
	DuplicateConfirmed bool
}

// FrozenHash returns the state hash computed when the slot was frozen.
func (s FrozenHashStatus) FrozenHash() types.Hash256 {
	return s.Hash
}

// IsDuplicateConfirmed reports whether the cluster confirmed this exact
// version of the slot.
func (s FrozenHashStatus) IsDuplicateConfirmed() bool {
	return s.DuplicateConfirmed
}

func (s FrozenHashStatus) frozenHashVersion() uint32 {
	return frozenHashVersionCurrent
}
