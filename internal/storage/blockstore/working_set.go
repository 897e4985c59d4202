package blockstore

import (
	"context"
	"errors"
	"sort"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
	"github.com/LeJamon/goShredstore/internal/storage/kv"
)

// erasureSetID addresses one erasure set within the store.
type erasureSetID struct {
	slot     uint64
	setIndex uint64
}

// shredLoc addresses one stored shred payload.
type shredLoc struct {
	prefix byte
	slot   uint64
	index  uint64
}

type workingSlotMeta struct {
	meta *meta.SlotMeta
	// backup is the record as it stood before this batch, nil for slots
	// created by the batch. Chaining compares against it to detect orphan
	// and fullness transitions.
	backup  *meta.SlotMeta
	dirty   bool
	chained bool
}

type workingIndex struct {
	index *meta.Index
	dirty bool
}

type workingErasure struct {
	meta  meta.ErasureMeta
	dirty bool
}

// workingSet accumulates every record an insert batch touches so that all
// mutations land in one atomic write at commit.
type workingSet struct {
	store *Store

	slotMetas map[uint64]*workingSlotMeta
	indexes   map[uint64]*workingIndex
	erasure   map[erasureSetID]*workingErasure

	shredPuts map[shredLoc][]byte
	orphanAdd map[uint64]struct{}
	orphanDel map[uint64]struct{}
}

func newWorkingSet(s *Store) *workingSet {
	return &workingSet{
		store:     s,
		slotMetas: make(map[uint64]*workingSlotMeta),
		indexes:   make(map[uint64]*workingIndex),
		erasure:   make(map[erasureSetID]*workingErasure),
		shredPuts: make(map[shredLoc][]byte),
		orphanAdd: make(map[uint64]struct{}),
		orphanDel: make(map[uint64]struct{}),
	}
}

// getSlotMeta loads a slot's record into the working set, returning nil when
// the slot has none.
func (ws *workingSet) getSlotMeta(ctx context.Context, slot uint64) (*workingSlotMeta, error) {
	if entry, ok := ws.slotMetas[slot]; ok {
		return entry, nil
	}
	m, err := ws.store.readSlotMeta(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entry := &workingSlotMeta{meta: m, backup: m.Clone()}
	ws.slotMetas[slot] = entry
	return entry, nil
}

// ensureSlotMeta loads a slot's record, creating it with newMeta when the
// slot has never been seen.
func (ws *workingSet) ensureSlotMeta(ctx context.Context, slot uint64, newMeta func() *meta.SlotMeta) (*workingSlotMeta, error) {
	entry, err := ws.getSlotMeta(ctx, slot)
	if err != nil || entry != nil {
		return entry, err
	}
	entry = &workingSlotMeta{meta: newMeta(), dirty: true}
	ws.slotMetas[slot] = entry
	return entry, nil
}

// getIndex loads a slot's presence sets, creating empty ones when absent.
func (ws *workingSet) getIndex(ctx context.Context, slot uint64) (*workingIndex, error) {
	if entry, ok := ws.indexes[slot]; ok {
		return entry, nil
	}
	ix, err := ws.store.Index(ctx, slot)
	if err != nil {
		return nil, err
	}
	entry := &workingIndex{index: ix}
	ws.indexes[slot] = entry
	return entry, nil
}

// getErasure loads the erasure record of a set, returning nil when none
// exists yet.
func (ws *workingSet) getErasure(ctx context.Context, slot, setIndex uint64) (*workingErasure, error) {
	id := erasureSetID{slot: slot, setIndex: setIndex}
	if entry, ok := ws.erasure[id]; ok {
		return entry, nil
	}
	em, err := ws.store.ErasureMeta(ctx, slot, setIndex)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entry := &workingErasure{meta: em}
	ws.erasure[id] = entry
	return entry, nil
}

// putErasure records a fresh erasure record derived from a coding shred.
func (ws *workingSet) putErasure(slot, setIndex uint64, em meta.ErasureMeta) *workingErasure {
	entry := &workingErasure{meta: em, dirty: true}
	ws.erasure[erasureSetID{slot: slot, setIndex: setIndex}] = entry
	return entry
}

// stageShred queues a framed shred payload for the commit batch.
func (ws *workingSet) stageShred(prefix byte, slot, index uint64, framed []byte) {
	ws.shredPuts[shredLoc{prefix: prefix, slot: slot, index: index}] = framed
}

// shredBytes returns a shred's wire bytes from the staged batch or the
// database, reporting false when the shred is in neither.
func (ws *workingSet) shredBytes(ctx context.Context, prefix byte, slot, index uint64) ([]byte, bool) {
	if framed, ok := ws.shredPuts[shredLoc{prefix: prefix, slot: slot, index: index}]; ok {
		payload, err := unpackPayload(framed)
		if err != nil {
			return nil, false
		}
		return payload, true
	}
	payload, err := ws.store.readShred(ctx, prefix, slot, index)
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (ws *workingSet) markOrphan(slot uint64) {
	delete(ws.orphanDel, slot)
	ws.orphanAdd[slot] = struct{}{}
}

func (ws *workingSet) unmarkOrphan(slot uint64) {
	delete(ws.orphanAdd, slot)
	ws.orphanDel[slot] = struct{}{}
}

// unchainedSlots returns the modified slots not yet run through chaining, in
// ascending order. Chaining parents before children keeps connectivity
// propagation single-pass.
func (ws *workingSet) unchainedSlots() []uint64 {
	var slots []uint64
	for slot, entry := range ws.slotMetas {
		if entry.dirty && !entry.chained {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

func sortedSlots[V any](m map[uint64]V) []uint64 {
	slots := make([]uint64, 0, len(m))
	for slot := range m {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// commitOps flattens the working set into one deterministically ordered
// batch.
func (ws *workingSet) commitOps() ([]kv.BatchOperation, error) {
	var ops []kv.BatchOperation

	locs := make([]shredLoc, 0, len(ws.shredPuts))
	for loc := range ws.shredPuts {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		a, b := locs[i], locs[j]
		if a.prefix != b.prefix {
			return a.prefix < b.prefix
		}
		if a.slot != b.slot {
			return a.slot < b.slot
		}
		return a.index < b.index
	})
	for _, loc := range locs {
		ops = append(ops, kv.Put(slotIndexKey(loc.prefix, loc.slot, loc.index), ws.shredPuts[loc]))
	}

	for _, slot := range sortedSlots(ws.indexes) {
		entry := ws.indexes[slot]
		if !entry.dirty {
			continue
		}
		data, err := entry.index.MarshalBinary()
		if err != nil {
			return nil, err
		}
		ops = append(ops, kv.Put(slotKey(prefixIndex, slot), data))
	}

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
		if !entry.dirty {
			continue
		}
		data, err := entry.meta.MarshalBinary()
		if err != nil {
			return nil, err
		}
		ops = append(ops, kv.Put(slotIndexKey(prefixErasureMeta, id.slot, id.setIndex), data))
	}

	for _, slot := range sortedSlots(ws.slotMetas) {
		entry := ws.slotMetas[slot]
		if !entry.dirty {
			continue
		}
		data, err := entry.meta.MarshalBinary()
		if err != nil {
			return nil, err
		}
		ops = append(ops, kv.Put(slotKey(prefixSlotMeta, slot), data))
	}

	for _, slot := range sortedSlots(ws.orphanAdd) {
		ops = append(ops, kv.Put(slotKey(prefixOrphan, slot), nil))
	}
	for _, slot := range sortedSlots(ws.orphanDel) {
		ops = append(ops, kv.Del(slotKey(prefixOrphan, slot)))
	}
	return ops, nil
}
