package blockstore

import (
	"context"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
	"github.com/LeJamon/goShredstore/internal/storage/kv"
)

// SlotMetaIterator walks slot records in ascending slot order.
type SlotMetaIterator struct {
	iter kv.Iterator
	meta *meta.SlotMeta
	err  error
}

// SlotMetaIterator returns an iterator over the slot records starting at
// from. Close it when done.
func (s *Store) SlotMetaIterator(ctx context.Context, from uint64) (*SlotMetaIterator, error) {
	start := slotKey(prefixSlotMeta, from)
	_, end := columnBounds(prefixSlotMeta)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &SlotMetaIterator{iter: iter}, nil
}

// Next advances to the next record, reporting false at the end of the column
// or on error.
func (it *SlotMetaIterator) Next() bool {
	if it.err != nil || !it.iter.Next() {
		return false
	}
	var m meta.SlotMeta
	if err := m.UnmarshalBinary(it.iter.Value()); err != nil {
		it.err = err
		return false
	}
	it.meta = &m
	return true
}

// Meta returns the record at the current position.
func (it *SlotMetaIterator) Meta() *meta.SlotMeta {
	return it.meta
}

// Error returns the first error hit while iterating.
func (it *SlotMetaIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.iter.Error()
}

// Close releases the iterator.
func (it *SlotMetaIterator) Close() error {
	return it.iter.Close()
}

// ColumnStats counts the records in each column family.
type ColumnStats struct {
	SlotMetas       int
	Indexes         int
	ErasureMetas    int
	DataShreds      int
	CodeShreds      int
	DuplicateProofs int
	FrozenHashes    int
	Orphans         int
	Roots           int
	PerfSamples     int
	ProgramCosts    int
}

// Stats walks every column and counts its records.
func (s *Store) Stats(ctx context.Context) (*ColumnStats, error) {
	stats := &ColumnStats{}
	columns := []struct {
		prefix byte
		out    *int
	}{
		{prefixSlotMeta, &stats.SlotMetas},
		{prefixIndex, &stats.Indexes},
		{prefixErasureMeta, &stats.ErasureMetas},
		{prefixDataShred, &stats.DataShreds},
		{prefixCodeShred, &stats.CodeShreds},
		{prefixDuplicateProof, &stats.DuplicateProofs},
		{prefixFrozenHash, &stats.FrozenHashes},
		{prefixOrphan, &stats.Orphans},
		{prefixRoot, &stats.Roots},
		{prefixPerfSample, &stats.PerfSamples},
		{prefixProgramCost, &stats.ProgramCosts},
	}
	for _, c := range columns {
		n, err := s.countColumn(ctx, c.prefix)
		if err != nil {
			return nil, err
		}
		*c.out = n
	}
	return stats, nil
}

func (s *Store) countColumn(ctx context.Context, prefix byte) (int, error) {
	start, end := columnBounds(prefix)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}
