package blockstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
	"github.com/LeJamon/goShredstore/internal/core/shred"
)

// CompletedDataSetInfo identifies a run of data shreds that became fully
// present with this batch, indexes [StartIndex, EndIndex] inclusive.
type CompletedDataSetInfo struct {
	Slot       uint64
	StartIndex uint32
	EndIndex   uint32
}

// RecoverableSet identifies an erasure set with enough fragments present to
// reconstruct its missing data shreds. The decode itself happens outside the
// store; see the erasure package interfaces.
type RecoverableSet struct {
	Slot     uint64
	SetIndex uint64
	Meta     meta.ErasureMeta
}

// InsertResult reports what one InsertShreds call changed.
type InsertResult struct {
	NumInserted int
	NumSkipped  int
	Completed   []CompletedDataSetInfo
	Recoverable []RecoverableSet
}

// InsertShreds runs the ingestion pipeline over a batch of shreds: admission
// checks, presence and progress updates, slot chaining, then one atomic
// commit. Duplicate and conflicting shreds are skipped; conflicts
// additionally leave duplicate evidence behind.
func (s *Store) InsertShreds(ctx context.Context, shreds []*shred.Shred) (*InsertResult, error) {
	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	ws := newWorkingSet(s)
	result := &InsertResult{}

	for _, sh := range shreds {
		if sh == nil {
			continue
		}
		if s.opts.ShredVersion != 0 && sh.Version != s.opts.ShredVersion {
			s.log.WithFields(logrus.Fields{
				"slot":    sh.Slot,
				"index":   sh.Index,
				"version": sh.Version,
			}).Debug("dropping shred with foreign version")
			result.NumSkipped++
			continue
		}
		var err error
		switch {
		case sh.IsData():
			err = s.insertDataShred(ctx, ws, sh, result)
		case sh.IsCode():
			err = s.insertCodeShred(ctx, ws, sh, result)
		default:
			result.NumSkipped++
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.gatherRecoverable(ctx, ws, result); err != nil {
		return nil, err
	}
	if err := s.handleChaining(ctx, ws); err != nil {
		return nil, err
	}

	ops, err := ws.commitOps()
	if err != nil {
		return nil, err
	}
	if len(ops) > 0 {
		if err := s.db.Batch(ctx, ops); err != nil {
			return nil, fmt.Errorf("failed to commit shred batch: %w", err)
		}
	}

	var completed uint64
	for slot, entry := range ws.slotMetas {
		if entry.dirty {
			s.metaCache.Add(slot, entry.meta.Clone())
		}
		if entry.meta.IsFull() && (entry.backup == nil || !entry.backup.IsFull()) {
			completed++
		}
	}

	s.shredsInserted.Add(uint64(result.NumInserted))
	s.slotsCompleted.Add(completed)
	if len(ops) > 0 {
		s.batchesWritten.Add(1)
	}

	s.log.WithFields(logrus.Fields{
		"inserted":    result.NumInserted,
		"skipped":     result.NumSkipped,
		"recoverable": len(result.Recoverable),
	}).Debug("shred batch committed")
	return result, nil
}

func (s *Store) insertDataShred(ctx context.Context, ws *workingSet, sh *shred.Shred, result *InsertResult) error {
	slot := sh.Slot
	index := uint64(sh.Index)

	ixEntry, err := ws.getIndex(ctx, slot)
	if err != nil {
		return err
	}
	entry, err := ws.ensureSlotMeta(ctx, slot, func() *meta.SlotMeta {
		if parent, ok := sh.ParentSlot(); ok {
			return meta.NewSlotMeta(slot, parent)
		}
		return meta.NewOrphanSlotMeta(slot)
	})
	if err != nil {
		return err
	}
	m := entry.meta

	ok, err := s.shouldInsertDataShred(ctx, ws, sh, m, ixEntry.index)
	if err != nil {
		return err
	}
	if !ok {
		result.NumSkipped++
		return nil
	}

	// An orphan learns its parent from the first data shred that names it.
	if parent, ok := sh.ParentSlot(); ok && !m.IsParentSet() {
		m.ParentSlot = &parent
	}

	ws.stageShred(prefixDataShred, slot, index, s.packPayload(sh.Encode()))
	ixEntry.index.Data().SetPresent(index)
	ixEntry.dirty = true

	if m.FirstShredTimestamp == 0 {
		m.FirstShredTimestamp = uint64(time.Now().UnixMilli())
	}
	if index+1 > m.Received {
		m.Received = index + 1
	}
	if sh.LastInSlot() {
		if _, known := m.KnownLastIndex(); !known {
			last := index
			m.LastIndex = &last
		}
	}
	// Advance the contiguous horizon across everything already present.
	if index == m.Consumed {
		next := index + 1
		for ixEntry.index.Data().IsPresent(next) {
			next++
		}
		m.Consumed = next
	}
	for _, r := range completedDataRanges(sh.DataComplete(), sh.Index, ixEntry.index.Data(), m) {
		result.Completed = append(result.Completed, CompletedDataSetInfo{
			Slot:       slot,
			StartIndex: r[0],
			EndIndex:   r[1],
		})
	}
	entry.dirty = true

	// Track the shred's erasure set so the recoverability sweep sees data
	// arrivals too, not just parity.
	if _, err := ws.getErasure(ctx, slot, uint64(sh.FECSetIndex)); err != nil {
		return err
	}

	result.NumInserted++
	return nil
}

// shouldInsertDataShred applies the slot-progress admission rules. A false
// return means the shred is a duplicate or conflicts with recorded progress;
// conflicts also store duplicate evidence.
func (s *Store) shouldInsertDataShred(ctx context.Context, ws *workingSet, sh *shred.Shred, m *meta.SlotMeta, ix *meta.Index) (bool, error) {
	slot := sh.Slot
	index := uint64(sh.Index)

	if index < m.Consumed || ix.Data().IsPresent(index) {
		return false, nil
	}

	// A shred beyond the recorded last index conflicts with the shred that
	// declared the slot's end.
	if last, known := m.KnownLastIndex(); known && index > last {
		s.log.WithFields(logrus.Fields{
			"slot":       slot,
			"index":      index,
			"last_index": last,
		}).Warn("data shred past recorded last index")
		if evidence, ok := ws.shredBytes(ctx, prefixDataShred, slot, last); ok {
			if err := s.StoreDuplicateSlotProof(ctx, slot, meta.NewDuplicateSlotProof(evidence, sh.Encode())); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	// A shred claiming to end the slot below the received horizon conflicts
	// the other way around: higher-indexed shreds already landed.
	if sh.LastInSlot() && m.Received > 0 && index < m.Received-1 {
		s.log.WithFields(logrus.Fields{
			"slot":     slot,
			"index":    index,
			"received": m.Received,
		}).Warn("last-in-slot shred below received horizon")
		if evidence, ok := ws.shredBytes(ctx, prefixDataShred, slot, m.Received-1); ok {
			if err := s.StoreDuplicateSlotProof(ctx, slot, meta.NewDuplicateSlotProof(evidence, sh.Encode())); err != nil {
				return false, err
			}
		}
		return false, nil
	}
	return true, nil
}

func (s *Store) insertCodeShred(ctx context.Context, ws *workingSet, sh *shred.Shred, result *InsertResult) error {
	slot := sh.Slot
	index := uint64(sh.Index)
	setIndex := uint64(sh.FECSetIndex)

	ixEntry, err := ws.getIndex(ctx, slot)
	if err != nil {
		return err
	}
	if ixEntry.index.Coding().IsPresent(index) {
		result.NumSkipped++
		return nil
	}

	emEntry, err := ws.getErasure(ctx, slot, setIndex)
	if err != nil {
		return err
	}
	if emEntry == nil {
		em, ok := meta.ErasureMetaFromCodingShred(sh)
		if !ok {
			s.log.WithFields(logrus.Fields{
				"slot":  slot,
				"index": index,
			}).Debug("dropping coding shred with inconsistent header")
			result.NumSkipped++
			return nil
		}
		emEntry = ws.putErasure(slot, setIndex, em)
	} else if !emEntry.meta.CheckCodingShred(sh) {
		s.log.WithFields(logrus.Fields{
			"slot":      slot,
			"set_index": setIndex,
			"index":     index,
		}).Warn("coding shred disagrees with recorded erasure config")
		if evidence, ok := s.findCodingEvidence(ctx, ws, slot, emEntry.meta, ixEntry.index); ok {
			if err := s.StoreDuplicateSlotProof(ctx, slot, meta.NewDuplicateSlotProof(evidence, sh.Encode())); err != nil {
				return err
			}
		}
		result.NumSkipped++
		return nil
	}

	ws.stageShred(prefixCodeShred, slot, index, s.packPayload(sh.Encode()))
	ixEntry.index.Coding().SetPresent(index)
	ixEntry.dirty = true
	result.NumInserted++
	return nil
}

// findCodingEvidence locates any stored coding shred of the conflicting set
// to pair with the newcomer as duplicate evidence.
func (s *Store) findCodingEvidence(ctx context.Context, ws *workingSet, slot uint64, em meta.ErasureMeta, ix *meta.Index) ([]byte, bool) {
	var evidence []byte
	var found bool
	ix.Coding().Range(em.CodingShredsIndices(), func(i uint64) bool {
		if payload, ok := ws.shredBytes(ctx, prefixCodeShred, slot, i); ok {
			evidence, found = payload, true
			return false
		}
		return true
	})
	return evidence, found
}

// gatherRecoverable surveys every erasure set the batch touched and surfaces
// the ones ready for reconstruction, in (slot, set) order.
func (s *Store) gatherRecoverable(ctx context.Context, ws *workingSet, result *InsertResult) error {
	ids := make([]erasureSetID, 0, len(ws.erasure))
	for id := range ws.erasure {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].slot != ids[j].slot {
			return ids[i].slot < ids[j].slot
		}
		return ids[i].setIndex < ids[j].setIndex
	})
	for _, id := range ids {
		entry := ws.erasure[id]
		ixEntry, err := ws.getIndex(ctx, id.slot)
		if err != nil {
			return err
		}
		status := entry.meta.Status(ixEntry.index)
		if status.State == meta.ErasureCanRecover {
			result.Recoverable = append(result.Recoverable, RecoverableSet{
				Slot:     id.slot,
				SetIndex: id.setIndex,
				Meta:     entry.meta,
			})
		}
	}
	return nil
}

// completedDataRanges reports the data ranges closed by inserting the shred
// at newIndex. Completion markers split the slot's data stream into batches;
// a batch is reported once every index inside it is present.
func completedDataRanges(isDataComplete bool, newIndex uint32, data *meta.ShredIndex, m *meta.SlotMeta) [][2]uint32 {
	start := uint32(0)
	if p, ok := predecessorMarker(m.CompletedDataIndexes, newIndex); ok {
		start = p + 1
	}

	bounds := []uint32{start}
	if isDataComplete {
		m.InsertCompletedDataIndex(newIndex)
		bounds = append(bounds, newIndex+1)
	}
	if next, ok := successorMarker(m.CompletedDataIndexes, newIndex); ok {
		bounds = append(bounds, next+1)
	}

	var ranges [][2]uint32
	for i := 0; i+1 < len(bounds); i++ {
		begin, end := bounds[i], bounds[i+1]
		if begin >= end {
			continue
		}
		r := meta.NewIndexRange(uint64(begin), uint64(end))
		if data.CountInRange(r) == int(end-begin) {
			ranges = append(ranges, [2]uint32{begin, end - 1})
		}
	}
	return ranges
}

// predecessorMarker returns the largest completion marker strictly below
// index.
func predecessorMarker(markers []uint32, index uint32) (uint32, bool) {
	i := sort.Search(len(markers), func(i int) bool { return markers[i] >= index })
	if i == 0 {
		return 0, false
	}
	return markers[i-1], true
}

// successorMarker returns the smallest completion marker strictly above
// index.
func successorMarker(markers []uint32, index uint32) (uint32, bool) {
	i := sort.Search(len(markers), func(i int) bool { return markers[i] > index })
	if i == len(markers) {
		return 0, false
	}
	return markers[i], true
}
