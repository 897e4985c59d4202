// Package shred models the wire-level ledger fragment: a signed, versioned
// piece of a slot's data stream, either a data shred carrying payload bytes or
// a coding shred carrying erasure parity for one FEC set.
package shred

// Type distinguishes the two shred variants.
type Type uint8

const (
	// TypeData carries a chunk of the slot's data stream.
	TypeData Type = 0xa5
	// TypeCode carries erasure parity for one FEC set.
	TypeCode Type = 0x5a
)

// String returns the string representation of the shred type.
func (t Type) String() string {
	switch t {
	case TypeData:
		return "data"
	case TypeCode:
		return "code"
	default:
		return "unknown"
	}
}

// Data shred flag bits. The low six bits carry the reference tick; the two
// high bits mark batch and slot boundaries. FlagLastInSlot includes the
// data-complete bit: the last shred always ends a batch.
const (
	FlagReferenceTickMask uint8 = 0x3f
	FlagDataComplete      uint8 = 0x40
	FlagLastInSlot        uint8 = 0xc0
)

// SignatureLen is the size of the shred signature in bytes.
const SignatureLen = 64

// Signature is the opaque signature over the shred contents. Verification is
// performed upstream of this package.
type Signature [SignatureLen]byte

// Shred is the parsed form of a single fragment. Exactly one of the data
// header fields (ParentOffset, Flags) or the coding header fields (NumData,
// NumCoding, Position) is meaningful, selected by Variant.
type Shred struct {
	Signature   Signature
	Variant     Type
	Slot        uint64
	Index       uint32
	Version     uint16
	FECSetIndex uint32

	// Data header.
	ParentOffset uint16
	Flags        uint8

	// Coding header.
	NumData   uint16
	NumCoding uint16
	Position  uint16

	Payload []byte
}

// NewDataShred builds a data shred for slot at index. parentOffset is the
// distance back to the parent slot; flags carry the reference tick and the
// boundary bits.
func NewDataShred(slot uint64, index uint32, parentOffset uint16, flags uint8, version uint16, fecSetIndex uint32, payload []byte) *Shred {
	return &Shred{
		Variant:      TypeData,
		Slot:         slot,
		Index:        index,
		Version:      version,
		FECSetIndex:  fecSetIndex,
		ParentOffset: parentOffset,
		Flags:        flags,
		Payload:      payload,
	}
}

// NewCodeShred builds a coding shred for slot at index. position is the
// shred's rank within the parity run of the FEC set starting at fecSetIndex.
func NewCodeShred(slot uint64, index uint32, version uint16, fecSetIndex uint32, numData, numCoding, position uint16, payload []byte) *Shred {
	return &Shred{
		Variant:     TypeCode,
		Slot:        slot,
		Index:       index,
		Version:     version,
		FECSetIndex: fecSetIndex,
		NumData:     numData,
		NumCoding:   numCoding,
		Position:    position,
		Payload:     payload,
	}
}

// IsData reports whether the shred is a data shred.
func (s *Shred) IsData() bool {
	return s.Variant == TypeData
}

// IsCode reports whether the shred is a coding shred.
func (s *Shred) IsCode() bool {
	return s.Variant == TypeCode
}

// DataComplete reports whether this data shred ends a data batch.
func (s *Shred) DataComplete() bool {
	return s.IsData() && s.Flags&FlagDataComplete != 0
}

// LastInSlot reports whether this data shred is the final shred of its slot.
func (s *Shred) LastInSlot() bool {
	return s.IsData() && s.Flags&FlagLastInSlot == FlagLastInSlot
}

// ReferenceTick returns the tick hint carried in the data shred flags.
func (s *Shred) ReferenceTick() uint8 {
	return s.Flags & FlagReferenceTickMask
}

// ParentSlot returns the slot this data shred chains back to. It reports
// false for coding shreds and for headers whose offset is inconsistent: an
// offset beyond the slot number, or a zero offset on a non-root slot.
func (s *Shred) ParentSlot() (uint64, bool) {
	if !s.IsData() {
		return 0, false
	}
	off := uint64(s.ParentOffset)
	if off > s.Slot {
		return 0, false
	}
	if off == 0 && s.Slot != 0 {
		return 0, false
	}
	return s.Slot - off, true
}

// FirstCodingIndex returns the index of the first parity shred in this coding
// shred's FEC set, derived from the shred's own index and position. It
// reports false for data shreds and for positions beyond the index.
func (s *Shred) FirstCodingIndex() (uint32, bool) {
	if !s.IsCode() {
		return 0, false
	}
	if uint32(s.Position) > s.Index {
		return 0, false
	}
	return s.Index - uint32(s.Position), true
}
