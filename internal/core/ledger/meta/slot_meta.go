package meta

import "sort"

// SlotMeta is the per-slot progress record: how far the contiguous data
// stream has advanced, what the highest observed shred is, how the slot
// chains to its parent and children, and whether the slot is connected to
// the root of the ledger.
//
// LastIndex and ParentSlot are nil until learned from a shred; the on-disk
// encoding keeps the legacy max-value sentinel for both (see serde.go).
type SlotMeta struct {
	// Slot is the slot this record describes.
	Slot uint64
	// Consumed counts the leading contiguous data shreds: every index in
	// [0, Consumed) has been observed.
	Consumed uint64
	// Received is one past the highest observed data shred index.
	Received uint64
	// FirstShredTimestamp is the unix time in milliseconds when the first
	// shred of this slot arrived. Zero means no shred has arrived yet.
	FirstShredTimestamp uint64
	// LastIndex is the index of the final data shred of the slot, once the
	// shred carrying the last-in-slot flag has been seen.
	LastIndex *uint64
	// ParentSlot is the slot this slot chains back to. A nil parent marks
	// an orphan whose ancestry is not yet known.
	ParentSlot *uint64
	// NextSlots lists the child slots discovered so far.
	NextSlots []uint64
	// Connected is true once the slot is full and its parent is connected.
	// Slot zero is connected by definition.
	Connected bool
	// CompletedDataIndexes holds, in ascending order, the data shred
	// positions flagged as the end of a data batch.
	CompletedDataIndexes []uint32
}

// NewSlotMeta creates the record for a slot with a known parent.
func NewSlotMeta(slot, parentSlot uint64) *SlotMeta {
	return &SlotMeta{
		Slot:       slot,
		ParentSlot: &parentSlot,
		Connected:  slot == 0,
	}
}

// NewOrphanSlotMeta creates the record for a slot whose parent is unknown.
func NewOrphanSlotMeta(slot uint64) *SlotMeta {
	return &SlotMeta{
		Slot:      slot,
		Connected: slot == 0,
	}
}

// IsFull reports whether every data shred of the slot has been observed.
// A slot with no known last index is never full.
func (m *SlotMeta) IsFull() bool {
	if m.LastIndex == nil {
		return false
	}
	// Should never happen.
	if m.Consumed > *m.LastIndex+1 {
		reportConsumedBeyondLastIndex(m.Slot, m.Consumed, *m.LastIndex)
	}
	return m.Consumed == *m.LastIndex+1
}

// KnownLastIndex returns the last data shred index, if it has been learned.
func (m *SlotMeta) KnownLastIndex() (uint64, bool) {
	if m.LastIndex == nil {
		return 0, false
	}
	return *m.LastIndex, true
}

// IsParentSet reports whether the slot's parent is known.
func (m *SlotMeta) IsParentSet() bool {
	return m.ParentSlot != nil
}

// IsOrphan reports whether the slot still lacks a known parent.
func (m *SlotMeta) IsOrphan() bool {
	return !m.IsParentSet()
}

// ClearUnconfirmed resets the record to a fresh orphan of the same slot,
// preserving only the discovered children. Used when the slot's observed
// version turns out to be unconfirmed and its shreds must be discarded.
func (m *SlotMeta) ClearUnconfirmed() {
	next := m.NextSlots
	*m = *NewOrphanSlotMeta(m.Slot)
	m.NextSlots = next
}

// InsertCompletedDataIndex records a batch-boundary position, keeping the
// set sorted and free of duplicates.
func (m *SlotMeta) InsertCompletedDataIndex(i uint32) {
	pos := sort.Search(len(m.CompletedDataIndexes), func(j int) bool {
		return m.CompletedDataIndexes[j] >= i
	})
	if pos < len(m.CompletedDataIndexes) && m.CompletedDataIndexes[pos] == i {
		return
	}
	m.CompletedDataIndexes = append(m.CompletedDataIndexes, 0)
	copy(m.CompletedDataIndexes[pos+1:], m.CompletedDataIndexes[pos:])
	m.CompletedDataIndexes[pos] = i
}

// Clone returns an independent deep copy of the record.
func (m *SlotMeta) Clone() *SlotMeta {
	dup := *m
	if m.LastIndex != nil {
		v := *m.LastIndex
		dup.LastIndex = &v
	}
	if m.ParentSlot != nil {
		v := *m.ParentSlot
		dup.ParentSlot = &v
	}
	if m.NextSlots != nil {
		dup.NextSlots = append([]uint64(nil), m.NextSlots...)
	}
	if m.CompletedDataIndexes != nil {
		dup.CompletedDataIndexes = append([]uint32(nil), m.CompletedDataIndexes...)
	}
	return &dup
}
