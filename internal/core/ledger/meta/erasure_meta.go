package meta

import (
	"fmt"

	"github.com/LeJamon/goShredstore/internal/core/erasure"
	"github.com/LeJamon/goShredstore/internal/core/shred"
)

// ErasureMeta records the geometry of one FEC set: which data shreds it
// covers, where its parity run begins, and the erasure configuration both
// were generated with. One record exists per (slot, set index).
type ErasureMeta struct {
	// setIndex is the index of the first data shred in the set.
	setIndex uint64
	// firstCodingIndex is the index of the first parity shred. Old writers
	// left it at zero; see CodingShredsIndices for the fallback.
	firstCodingIndex uint64
	// legacySize is unused but still occupies a slot in the serialized
	// layout, so it is carried through reads and writes.
	legacySize uint64
	config     erasure.Config
}

// NewErasureMeta builds a record directly from its parts.
func NewErasureMeta(setIndex, firstCodingIndex uint64, cfg erasure.Config) ErasureMeta {
	return ErasureMeta{
		setIndex:         setIndex,
		firstCodingIndex: firstCodingIndex,
		config:           cfg,
	}
}

// ErasureMetaFromCodingShred derives the set's record from one of its parity
// shreds. It reports false for data shreds and for coding shreds whose
// position is inconsistent with their index.
func ErasureMetaFromCodingShred(s *shred.Shred) (ErasureMeta, bool) {
	if !s.IsCode() {
		return ErasureMeta{}, false
	}
	first, ok := s.FirstCodingIndex()
	if !ok {
		return ErasureMeta{}, false
	}
	return ErasureMeta{
		setIndex:         uint64(s.FECSetIndex),
		firstCodingIndex: uint64(first),
		config:           erasure.NewConfig(int(s.NumData), int(s.NumCoding)),
	}, true
}

// CheckCodingShred reports whether a parity shred agrees with this record.
// The stored firstCodingIndex and legacySize are excluded from the
// comparison: only the set index and the erasure configuration must match.
func (m ErasureMeta) CheckCodingShred(s *shred.Shred) bool {
	other, ok := ErasureMetaFromCodingShred(s)
	if !ok {
		return false
	}
	other.legacySize = m.legacySize
	other.firstCodingIndex = m.firstCodingIndex
	return m == other
}

// SetIndex returns the index of the first data shred in the set.
func (m ErasureMeta) SetIndex() uint64 {
	return m.setIndex
}

// Config returns the erasure configuration of the set.
func (m ErasureMeta) Config() erasure.Config {
	return m.config
}

// DataShredsIndices returns the range of data shred indexes the set covers.
func (m ErasureMeta) DataShredsIndices() IndexRange {
	numData := uint64(m.config.NumData())
	return IndexRange{Start: m.setIndex, End: m.setIndex + numData}
}

// FirstCodingIndex returns the effective index of the first parity shred,
// after the legacy zero-value fallback of CodingShredsIndices is applied.
func (m ErasureMeta) FirstCodingIndex() uint64 {
	return m.CodingShredsIndices().Start
}

// CodingShredsIndices returns the range of parity shred indexes of the set.
// A zero firstCodingIndex may mean the field was never populated by an old
// writer, so the set index stands in for it.
func (m ErasureMeta) CodingShredsIndices() IndexRange {
	numCoding := uint64(m.config.NumCoding())
	first := m.firstCodingIndex
	if first == 0 {
		first = m.setIndex
	}
	return IndexRange{Start: first, End: first + numCoding}
}

// Status decides how recoverable the set currently is, given the slot's
// presence sets. The decision is total: any input yields one of the three
// states.
func (m ErasureMeta) Status(ix *Index) ErasureMetaStatus {
	numCoding := ix.Coding().CountInRange(m.CodingShredsIndices())
	numData := ix.Data().CountInRange(m.DataShredsIndices())

	dataMissing := saturatingSub(m.config.NumData(), numData)
	stillNeed := saturatingSub(m.config.NumData(), numData+numCoding)

	switch {
	case dataMissing == 0:
		return ErasureMetaStatus{State: ErasureDataFull}
	case stillNeed == 0:
		return ErasureMetaStatus{State: ErasureCanRecover}
	default:
		return ErasureMetaStatus{State: ErasureStillNeed, StillNeed: stillNeed}
	}
}

// ErasureState enumerates the recoverability outcomes of an erasure set.
type ErasureState int

const (
	// ErasureDataFull means every data shred of the set is present.
	ErasureDataFull ErasureState = iota
	// ErasureCanRecover means enough shreds are present to reconstruct the
	// missing data.
	ErasureCanRecover
	// ErasureStillNeed means the set cannot be reconstructed yet.
	ErasureStillNeed
)

// String returns the string representation of the state.
func (s ErasureState) String() string {
	switch s {
	case ErasureDataFull:
		return "data_full"
	case ErasureCanRecover:
		return "can_recover"
	case ErasureStillNeed:
		return "still_need"
	default:
		return "unknown"
	}
}

// ErasureMetaStatus is the outcome of ErasureMeta.Status. StillNeed is the
// number of shreds still required and is zero unless State is
// ErasureStillNeed.
type ErasureMetaStatus struct {
	State     ErasureState
	StillNeed int
}

// String returns the string representation of the status.
func (st ErasureMetaStatus) String() string {
	if st.State == ErasureStillNeed {
		return fmt.Sprintf("still_need(%d)", st.StillNeed)
	}
	return st.State.String()
}

// saturatingSub subtracts b from a, flooring at zero.
func saturatingSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}
