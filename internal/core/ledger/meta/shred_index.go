// Package meta implements the metadata layer of the shred blockstore: per-slot
// progress records, presence sets, erasure set bookkeeping and the decision
// functions replay and repair consume. Types here are plain data with no
// internal locking; the surrounding store guarantees at most one concurrent
// mutator per slot.
package meta

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// IndexRange is a half-open range [Start, End) of shred indexes.
type IndexRange struct {
	Start, End uint64
}

// NewIndexRange builds the half-open range [start, end).
func NewIndexRange(start, end uint64) IndexRange {
	return IndexRange{Start: start, End: end}
}

// AllIndexes returns the range covering every representable index.
func AllIndexes() IndexRange {
	return IndexRange{Start: 0, End: math.MaxUint64}
}

// Contains checks if an index is within this range.
func (r IndexRange) Contains(i uint64) bool {
	return i >= r.Start && i < r.End
}

// Length returns the number of indexes in this range.
func (r IndexRange) Length() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// String returns a string representation of the range.
func (r IndexRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// ShredIndex tracks which shred positions of one slot have been observed,
// using a sorted list of indexes searched with sort.Search.
type ShredIndex struct {
	index []uint64
}

// NewShredIndex creates an empty presence set.
func NewShredIndex() ShredIndex {
	return ShredIndex{}
}

// NumShreds returns the total number of present positions.
func (s *ShredIndex) NumShreds() int {
	return len(s.index)
}

// search returns the position of the first stored index >= i.
func (s *ShredIndex) search(i uint64) int {
	return sort.Search(len(s.index), func(j int) bool {
		return s.index[j] >= i
	})
}

// IsPresent checks if a shred position has been observed.
func (s *ShredIndex) IsPresent(i uint64) bool {
	pos := s.search(i)
	return pos < len(s.index) && s.index[pos] == i
}

// SetPresent marks a shred position as observed. Re-marking is a no-op.
func (s *ShredIndex) SetPresent(i uint64) {
	pos := s.search(i)
	if pos < len(s.index) && s.index[pos] == i {
		return
	}
	if pos == len(s.index) {
		s.index = append(s.index, i)
		return
	}
	s.index = append(s.index, 0)
	copy(s.index[pos+1:], s.index[pos:])
	s.index[pos] = i
}

// SetManyPresent marks a batch of shred positions as observed.
func (s *ShredIndex) SetManyPresent(indexes []uint64) {
	for _, i := range indexes {
		s.SetPresent(i)
	}
}

// Remove clears a shred position, reporting whether it was present.
func (s *ShredIndex) Remove(i uint64) bool {
	pos := s.search(i)
	if pos >= len(s.index) || s.index[pos] != i {
		return false
	}
	s.index = append(s.index[:pos], s.index[pos+1:]...)
	return true
}

// CountInRange returns how many present positions fall inside r.
func (s *ShredIndex) CountInRange(r IndexRange) int {
	if r.End <= r.Start {
		return 0
	}
	return s.search(r.End) - s.search(r.Start)
}

// Largest returns the highest present position, and whether any exist.
func (s *ShredIndex) Largest() (uint64, bool) {
	if len(s.index) == 0 {
		return 0, false
	}
	return s.index[len(s.index)-1], true
}

// Range calls fn for each present position inside r, in ascending order,
// stopping early when fn returns false.
func (s *ShredIndex) Range(r IndexRange, fn func(i uint64) bool) {
	for pos := s.search(r.Start); pos < len(s.index) && s.index[pos] < r.End; pos++ {
		if !fn(s.index[pos]) {
			return
		}
	}
}

// Clone returns an independent copy of the presence set.
func (s *ShredIndex) Clone() ShredIndex {
	if len(s.index) == 0 {
		return ShredIndex{}
	}
	dup := make([]uint64, len(s.index))
	copy(dup, s.index)
	return ShredIndex{index: dup}
}

// String returns a human-readable list of the present positions.
func (s *ShredIndex) String() string {
	if len(s.index) == 0 {
		return "empty"
	}
	parts := make([]string, len(s.index))
	for i, v := range s.index {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, ",")
}

// Index pairs the data and coding presence sets of one slot.
type Index struct {
	slot   uint64
	data   ShredIndex
	coding ShredIndex
}

// NewIndex creates an empty index for the given slot.
func NewIndex(slot uint64) *Index {
	return &Index{slot: slot}
}

// Slot returns the slot this index belongs to.
func (ix *Index) Slot() uint64 {
	return ix.slot
}

// Data returns the presence set for data shreds. The caller may mutate it.
func (ix *Index) Data() *ShredIndex {
	return &ix.data
}

// Coding returns the presence set for coding shreds. The caller may mutate it.
func (ix *Index) Coding() *ShredIndex {
	return &ix.coding
}
