package blockstore

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
)

// handleChaining links every slot the batch touched into the slot tree and
// propagates fork connectivity. Linking can pull parent records into the
// working set, so the worklist runs until no unprocessed slot remains.
func (s *Store) handleChaining(ctx context.Context, ws *workingSet) error {
	for {
		slots := ws.unchainedSlots()
		if len(slots) == 0 {
			return nil
		}
		for _, slot := range slots {
			if err := s.chainSlot(ctx, ws, slot); err != nil {
				return err
			}
		}
	}
}

func (s *Store) chainSlot(ctx context.Context, ws *workingSet, slot uint64) error {
	entry := ws.slotMetas[slot]
	entry.chained = true
	m := entry.meta

	isNew := entry.backup == nil
	wasOrphan := entry.backup != nil && entry.backup.IsOrphan()

	if isNew || wasOrphan {
		switch {
		case m.IsParentSet() && *m.ParentSlot != slot:
			if err := s.chainToParent(ctx, ws, slot, *m.ParentSlot); err != nil {
				return err
			}
			if wasOrphan {
				ws.unmarkOrphan(slot)
			}
		case !m.IsParentSet() && isNew:
			ws.markOrphan(slot)
			s.log.WithFields(logrus.Fields{"slot": slot}).Debug("orphan slot recorded")
		}
	}

	// Connectivity propagates on the full transition: a slot that just
	// became full connects when its parent is connected, and the flag then
	// cascades down through every already-full descendant.
	becameFull := m.IsFull() && (isNew || !entry.backup.IsFull())
	if !becameFull {
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"slot":     slot,
		"consumed": m.Consumed,
	}).Debug("slot is full")

	if m.Connected || !m.IsParentSet() {
		return nil
	}
	pentry, err := ws.getSlotMeta(ctx, *m.ParentSlot)
	if err != nil {
		return err
	}
	if pentry == nil || !pentry.meta.Connected {
		return nil
	}
	m.Connected = true
	entry.dirty = true
	s.log.WithFields(logrus.Fields{"slot": slot}).Debug("slot connected")
	return s.propagateConnected(ctx, ws, m.NextSlots)
}

// chainToParent records slot under its parent's children, creating a
// placeholder orphan record when the parent has never been seen.
func (s *Store) chainToParent(ctx context.Context, ws *workingSet, slot, parent uint64) error {
	pentry, err := ws.ensureSlotMeta(ctx, parent, func() *meta.SlotMeta {
		return meta.NewOrphanSlotMeta(parent)
	})
	if err != nil {
		return err
	}
	if addNextSlot(pentry.meta, slot) {
		pentry.dirty = true
	}
	return nil
}

// addNextSlot appends slot to m's children unless already linked. Re-linking
// happens when a cleared slot is refilled, so the guard matters.
func addNextSlot(m *meta.SlotMeta, slot uint64) bool {
	for _, next := range m.NextSlots {
		if next == slot {
			return false
		}
	}
	m.NextSlots = append(m.NextSlots, slot)
	return true
}

// propagateConnected walks the descendants of a newly connected slot,
// connecting every fully received child and descending only through those.
// A child that is not yet full ends the walk on its branch; it will pick the
// flag up from its parent when its own full transition fires.
func (s *Store) propagateConnected(ctx context.Context, ws *workingSet, children []uint64) error {
	queue := append([]uint64(nil), children...)
	for len(queue) > 0 {
		slot := queue[0]
		queue = queue[1:]

		entry, err := ws.getSlotMeta(ctx, slot)
		if err != nil {
			return err
		}
		if entry == nil {
			continue
		}
		m := entry.meta
		if m.Connected || !m.IsFull() {
			continue
		}
		m.Connected = true
		entry.dirty = true
		s.log.WithFields(logrus.Fields{"slot": slot}).Debug("slot connected")
		queue = append(queue, m.NextSlots...)
	}
	return nil
}
