package meta_test

import (
	"testing"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
)

func TestShredIndexPresence(t *testing.T) {
	idx := meta.NewShredIndex()

	if idx.NumShreds() != 0 {
		t.Fatalf("new index should be empty, got %d", idx.NumShreds())
	}
	if idx.IsPresent(3) {
		t.Error("empty index reports position 3 present")
	}

	idx.SetPresent(3)
	idx.SetPresent(1)
	idx.SetPresent(7)
	idx.SetPresent(3) // re-marking is a no-op

	if idx.NumShreds() != 3 {
		t.Errorf("expected 3 present positions, got %d", idx.NumShreds())
	}
	for _, i := range []uint64{1, 3, 7} {
		if !idx.IsPresent(i) {
			t.Errorf("position %d should be present", i)
		}
	}
	if idx.IsPresent(2) {
		t.Error("position 2 should be absent")
	}

	if got := idx.String(); got != "1,3,7" {
		t.Errorf("expected sorted order 1,3,7, got %q", got)
	}
}

func TestShredIndexSetManyAndRemove(t *testing.T) {
	idx := meta.NewShredIndex()
	idx.SetManyPresent([]uint64{5, 2, 9, 2})

	if idx.NumShreds() != 3 {
		t.Fatalf("expected 3 positions after batch insert, got %d", idx.NumShreds())
	}

	if !idx.Remove(5) {
		t.Error("removing a present position should report true")
	}
	if idx.Remove(5) {
		t.Error("removing an absent position should report false")
	}
	if idx.IsPresent(5) {
		t.Error("position 5 still present after removal")
	}
}

func TestShredIndexCountInRange(t *testing.T) {
	idx := meta.NewShredIndex()
	idx.SetManyPresent([]uint64{0, 1, 2, 10, 11, 50})

	cases := []struct {
		name string
		r    meta.IndexRange
		want int
	}{
		{"LeadingRun", meta.NewIndexRange(0, 3), 3},
		{"MiddleWindow", meta.NewIndexRange(3, 12), 2},
		{"ExclusiveEnd", meta.NewIndexRange(10, 11), 1},
		{"EmptyRange", meta.NewIndexRange(12, 12), 0},
		{"InvertedRange", meta.NewIndexRange(12, 4), 0},
		{"Unbounded", meta.AllIndexes(), 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := idx.CountInRange(tc.r); got != tc.want {
				t.Errorf("CountInRange(%v) = %d, want %d", tc.r, got, tc.want)
			}
		})
	}
}

func TestShredIndexLargest(t *testing.T) {
	idx := meta.NewShredIndex()

	if _, ok := idx.Largest(); ok {
		t.Error("empty index reported a largest position")
	}

	idx.SetManyPresent([]uint64{4, 90, 12})
	largest, ok := idx.Largest()
	if !ok || largest != 90 {
		t.Errorf("expected largest 90, got %d (ok=%v)", largest, ok)
	}
}

func TestShredIndexRangeIteration(t *testing.T) {
	idx := meta.NewShredIndex()
	idx.SetManyPresent([]uint64{1, 3, 5, 7})

	var seen []uint64
	idx.Range(meta.NewIndexRange(2, 7), func(i uint64) bool {
		seen = append(seen, i)
		return true
	})
	if len(seen) != 2 || seen[0] != 3 || seen[1] != 5 {
		t.Errorf("expected [3 5], got %v", seen)
	}

	// Early stop after the first visit.
	count := 0
	idx.Range(meta.AllIndexes(), func(uint64) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("expected a single visit after early stop, got %d", count)
	}
}

func TestIndexPair(t *testing.T) {
	ix := meta.NewIndex(42)

	if ix.Slot() != 42 {
		t.Errorf("expected slot 42, got %d", ix.Slot())
	}

	ix.Data().SetPresent(1)
	ix.Coding().SetPresent(2)

	if !ix.Data().IsPresent(1) || ix.Data().IsPresent(2) {
		t.Error("data presence set does not match inserts")
	}
	if !ix.Coding().IsPresent(2) || ix.Coding().IsPresent(1) {
		t.Error("coding presence set does not match inserts")
	}
}
