package blockstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
)

// AuditIssue is one cross-column inconsistency found by Audit.
type AuditIssue struct {
	Slot   uint64
	Column string
	Detail string
}

func (i AuditIssue) String() string {
	return fmt.Sprintf("slot %d [%s]: %s", i.Slot, i.Column, i.Detail)
}

// AuditReport summarizes a full consistency sweep.
type AuditReport struct {
	SlotsChecked  int
	ShredsChecked int
	Issues        []AuditIssue
}

// Ok reports whether the sweep found nothing wrong.
func (r *AuditReport) Ok() bool {
	return len(r.Issues) == 0
}

// Audit cross-checks the store's columns against each other: slot progress
// against the presence sets, presence sets against stored payloads, and
// orphan markers against the slot records. The sweep holds the insert lock
// for a stable view, so it is meant for maintenance windows.
func (s *Store) Audit(ctx context.Context) (*AuditReport, error) {
	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	const workers = 4
	issues := make([][]AuditIssue, workers)
	slotCounts := make([]int, workers)
	shredCounts := make([]int, workers)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, found, err := s.auditSlotMetas(ctx)
		slotCounts[0], issues[0] = n, found
		return err
	})
	g.Go(func() error {
		n, found, err := s.auditShredColumn(ctx, prefixDataShred, "data_shred")
		shredCounts[1], issues[1] = n, found
		return err
	})
	g.Go(func() error {
		n, found, err := s.auditShredColumn(ctx, prefixCodeShred, "code_shred")
		shredCounts[2], issues[2] = n, found
		return err
	})
	g.Go(func() error {
		found, err := s.auditOrphans(ctx)
		issues[3] = found
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &AuditReport{}
	for i := 0; i < workers; i++ {
		report.SlotsChecked += slotCounts[i]
		report.ShredsChecked += shredCounts[i]
		report.Issues = append(report.Issues, issues[i]...)
	}
	sort.Slice(report.Issues, func(i, j int) bool {
		a, b := report.Issues[i], report.Issues[j]
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Detail < b.Detail
	})

	s.log.WithFields(logrus.Fields{
		"slots":  report.SlotsChecked,
		"shreds": report.ShredsChecked,
		"issues": len(report.Issues),
	}).Info("audit finished")
	return report, nil
}

func (s *Store) auditSlotMetas(ctx context.Context) (int, []AuditIssue, error) {
	start, end := columnBounds(prefixSlotMeta)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return 0, nil, err
	}
	defer iter.Close()

	var issues []AuditIssue
	checked := 0
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return checked, issues, err
		}
		slot := slotFromKey(iter.Key())
		var m meta.SlotMeta
		if err := m.UnmarshalBinary(iter.Value()); err != nil {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: "slot_meta",
				Detail: fmt.Sprintf("undecodable record: %v", err),
			})
			continue
		}
		checked++
		if m.Slot != slot {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: "slot_meta",
				Detail: fmt.Sprintf("record claims slot %d", m.Slot),
			})
		}
		if m.Consumed > m.Received {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: "slot_meta",
				Detail: fmt.Sprintf("consumed %d exceeds received %d", m.Consumed, m.Received),
			})
		}
		if last, known := m.KnownLastIndex(); known && m.Consumed > last+1 {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: "slot_meta",
				Detail: fmt.Sprintf("consumed %d beyond last index %d", m.Consumed, last),
			})
		}
		ix, err := s.Index(ctx, slot)
		if err != nil {
			return checked, issues, err
		}
		if below := ix.Data().CountInRange(meta.NewIndexRange(0, m.Consumed)); uint64(below) != m.Consumed {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: "slot_meta",
				Detail: fmt.Sprintf("consumed horizon %d but %d shreds present below it", m.Consumed, below),
			})
		}
		if largest, ok := ix.Data().Largest(); ok && m.Received != largest+1 {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: "slot_meta",
				Detail: fmt.Sprintf("received %d but largest present index is %d", m.Received, largest),
			})
		}
		if m.Connected && slot != 0 && !m.IsFull() {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: "slot_meta",
				Detail: "connected but not full",
			})
		}
	}
	if err := iter.Error(); err != nil {
		return checked, issues, err
	}
	return checked, issues, nil
}

// auditShredColumn walks one payload column, checking every stored shred
// decodes and is marked present, and that per-slot payload counts match the
// presence sets.
func (s *Store) auditShredColumn(ctx context.Context, prefix byte, column string) (int, []AuditIssue, error) {
	start, end := columnBounds(prefix)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return 0, nil, err
	}
	defer iter.Close()

	var (
		issues   []AuditIssue
		checked  int
		haveSlot bool
		slot     uint64
		present  *meta.ShredIndex
		stored   int
	)
	flush := func() {
		if haveSlot && present.NumShreds() != stored {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: column,
				Detail: fmt.Sprintf("presence set has %d entries but %d payloads stored", present.NumShreds(), stored),
			})
		}
	}
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return checked, issues, err
		}
		key := iter.Key()
		keySlot := slotFromKey(key)
		index := indexFromKey(key)
		if !haveSlot || keySlot != slot {
			flush()
			haveSlot = true
			slot = keySlot
			stored = 0
			ix, err := s.Index(ctx, slot)
			if err != nil {
				return checked, issues, err
			}
			if prefix == prefixDataShred {
				present = ix.Data()
			} else {
				present = ix.Coding()
			}
		}
		stored++
		checked++
		if _, err := unpackPayload(iter.Value()); err != nil {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: column,
				Detail: fmt.Sprintf("shred %d: %v", index, err),
			})
		}
		if !present.IsPresent(index) {
			issues = append(issues, AuditIssue{
				Slot:   slot,
				Column: column,
				Detail: fmt.Sprintf("shred %d stored but not marked present", index),
			})
		}
	}
	flush()
	if err := iter.Error(); err != nil {
		return checked, issues, err
	}
	return checked, issues, nil
}

func (s *Store) auditOrphans(ctx context.Context) ([]AuditIssue, error) {
	orphans, err := s.Orphans(ctx)
	if err != nil {
		return nil, err
	}
	var issues []AuditIssue
	for _, slot := range orphans {
		if err := ctx.Err(); err != nil {
			return issues, err
		}
		m, err := s.readSlotMeta(ctx, slot)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				issues = append(issues, AuditIssue{Slot: slot, Column: "orphan", Detail: "marker without slot record"})
				continue
			}
			return issues, err
		}
		if !m.IsOrphan() {
			issues = append(issues, AuditIssue{Slot: slot, Column: "orphan", Detail: "marker for slot with known parent"})
		}
	}
	return issues, nil
}
