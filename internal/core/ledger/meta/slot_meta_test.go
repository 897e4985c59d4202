package meta_test

import (
	"reflect"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
)

func u64ptr(v uint64) *uint64 { return &v }

func TestNewSlotMeta(t *testing.T) {
	m := meta.NewSlotMeta(5, 4)

	if m.Slot != 5 {
		t.Errorf("expected slot 5, got %d", m.Slot)
	}
	if !m.IsParentSet() || m.IsOrphan() {
		t.Error("parent 4 should be set")
	}
	if parent := *m.ParentSlot; parent != 4 {
		t.Errorf("expected parent 4, got %d", parent)
	}
	if m.Connected {
		t.Error("a non-root slot must not start connected")
	}

	if root := meta.NewSlotMeta(0, 0); !root.Connected {
		t.Error("slot zero is connected by definition")
	}
}

func TestNewOrphanSlotMeta(t *testing.T) {
	m := meta.NewOrphanSlotMeta(9)

	if !m.IsOrphan() || m.IsParentSet() {
		t.Error("orphan constructor should leave the parent unknown")
	}
	if m.ParentSlot != nil {
		t.Errorf("expected nil parent, got %d", *m.ParentSlot)
	}
}

func TestSlotMetaIsFull(t *testing.T) {
	t.Run("UnknownLastIndex", func(t *testing.T) {
		m := meta.NewSlotMeta(1, 0)
		m.Consumed = 50
		m.Received = 50
		if m.IsFull() {
			t.Error("a slot without a known last index is never full")
		}
	})

	t.Run("ConsumedReachesLastIndex", func(t *testing.T) {
		m := meta.NewSlotMeta(1, 0)
		m.Consumed = 96
		m.Received = 96
		m.LastIndex = u64ptr(95)
		if !m.IsFull() {
			t.Error("consumed == last index + 1 should be full")
		}
	})

	t.Run("ConsumedBehind", func(t *testing.T) {
		m := meta.NewSlotMeta(1, 0)
		m.Consumed = 90
		m.Received = 96
		m.LastIndex = u64ptr(95)
		if m.IsFull() {
			t.Error("a slot with missing shreds must not be full")
		}
	})

	t.Run("ConsumedBeyondLastIndex", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		meta.SetLogger(logger)

		m := meta.NewSlotMeta(1, 0)
		m.Consumed = 100
		m.Received = 100
		m.LastIndex = u64ptr(95)

		// Anomalous input: the answer stays conservative and the event is
		// only logged.
		if m.IsFull() {
			t.Error("consumed beyond last index must not read as full")
		}
		entry := hook.LastEntry()
		if entry == nil {
			t.Fatal("expected an anomaly log entry")
		}
		if entry.Data["event"] != "consumed_beyond_last_index" {
			t.Errorf("unexpected event field: %v", entry.Data["event"])
		}
		if entry.Data["slot"] != uint64(1) {
			t.Errorf("unexpected slot field: %v", entry.Data["slot"])
		}
	})
}

func TestSlotMetaKnownLastIndex(t *testing.T) {
	m := meta.NewSlotMeta(1, 0)

	if _, ok := m.KnownLastIndex(); ok {
		t.Error("fresh meta should not know its last index")
	}

	m.LastIndex = u64ptr(33)
	last, ok := m.KnownLastIndex()
	if !ok || last != 33 {
		t.Errorf("expected last index 33, got %d (ok=%v)", last, ok)
	}
}

func TestClearUnconfirmedPreservesNextSlots(t *testing.T) {
	m := meta.NewSlotMeta(5, 4)
	m.Consumed = 96
	m.Received = 96
	m.FirstShredTimestamp = 1_700_000_000_000
	m.LastIndex = u64ptr(95)
	m.NextSlots = []uint64{6, 7}
	m.Connected = true
	m.InsertCompletedDataIndex(31)
	m.InsertCompletedDataIndex(95)

	m.ClearUnconfirmed()

	expected := meta.NewOrphanSlotMeta(5)
	expected.NextSlots = []uint64{6, 7}
	if !reflect.DeepEqual(m, expected) {
		t.Errorf("cleared meta differs from fresh orphan:\n got %+v\nwant %+v", m, expected)
	}
}

func TestInsertCompletedDataIndex(t *testing.T) {
	m := meta.NewSlotMeta(1, 0)
	for _, i := range []uint32{31, 7, 64, 31, 7} {
		m.InsertCompletedDataIndex(i)
	}

	want := []uint32{7, 31, 64}
	if !reflect.DeepEqual(m.CompletedDataIndexes, want) {
		t.Errorf("expected %v, got %v", want, m.CompletedDataIndexes)
	}
}

func TestSlotMetaClone(t *testing.T) {
	m := meta.NewSlotMeta(5, 4)
	m.LastIndex = u64ptr(95)
	m.NextSlots = []uint64{6}
	m.InsertCompletedDataIndex(10)

	dup := m.Clone()
	if !reflect.DeepEqual(m, dup) {
		t.Fatalf("clone differs: %+v vs %+v", m, dup)
	}

	*dup.LastIndex = 7
	dup.NextSlots[0] = 99
	dup.InsertCompletedDataIndex(11)

	if *m.LastIndex != 95 || m.NextSlots[0] != 6 || len(m.CompletedDataIndexes) != 1 {
		t.Error("mutating the clone leaked into the original")
	}
}
