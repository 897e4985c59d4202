// Package blockstore persists the shred ledger: raw shred payloads, per-slot
// progress metadata, erasure set bookkeeping, duplicate evidence and the
// frozen hash records, all layered over a pluggable ordered key-value
// backend. The metadata semantics live in the meta package; this package owns
// durability, chaining between slots and the single-writer insert pipeline.
package blockstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
	"github.com/LeJamon/goShredstore/internal/core/shred"
	"github.com/LeJamon/goShredstore/internal/storage/blockstore/compression"
	"github.com/LeJamon/goShredstore/internal/storage/kv"
	"github.com/LeJamon/goShredstore/internal/storage/kv/leveldb"
	"github.com/LeJamon/goShredstore/internal/storage/kv/pebbledb"
)

const defaultCacheSize = 1024

// Options configures a Store.
type Options struct {
	// Path is the directory the backend stores its files under.
	Path string
	// Backend selects the key-value engine: "pebble" (default) or "leveldb".
	Backend string
	// Compression selects the payload compressor: "lz4" (default) or "none".
	Compression string
	// CacheSize is the number of SlotMeta records kept in the read cache.
	CacheSize int
	// ShredVersion, when nonzero, rejects shreds of any other version.
	ShredVersion uint16
	// Logger receives store and metadata diagnostics.
	Logger *logrus.Logger
}

// Store is the persistent shred blockstore.
type Store struct {
	db         kv.DB
	opts       Options
	log        *logrus.Logger
	compressor compression.Compressor

	// insertMu serializes the shred insert pipeline: the metadata layer
	// requires at most one concurrent mutator per slot, and a store-wide
	// writer gives that with room to spare.
	insertMu sync.Mutex

	metaCache   *lru.Cache[uint64, *meta.SlotMeta]
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	shredsInserted atomic.Uint64
	slotsCompleted atomic.Uint64
	batchesWritten atomic.Uint64

	maxRoot atomic.Uint64
}

// Open opens the blockstore at opts.Path, creating it if needed.
func Open(opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	meta.SetLogger(opts.Logger)

	compressor, err := compression.ForName(defaultString(opts.Compression, "lz4"))
	if err != nil {
		return nil, err
	}

	db, err := openBackend(defaultString(opts.Backend, "pebble"), opts.Path)
	if err != nil {
		return nil, err
	}

	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	cache, err := lru.New[uint64, *meta.SlotMeta](opts.CacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:         db,
		opts:       opts,
		log:        opts.Logger,
		compressor: compressor,
		metaCache:  cache,
	}

	ctx := context.Background()
	if err := s.loadMaxRoot(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.initTransactionStatusIndexes(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"path":        opts.Path,
		"backend":     defaultString(opts.Backend, "pebble"),
		"compression": compressor.Name(),
		"max_root":    s.maxRoot.Load(),
	}).Info("blockstore opened")
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func openBackend(backend, path string) (kv.DB, error) {
	switch backend {
	case "pebble":
		return pebbledb.Open(path)
	case "leveldb":
		return leveldb.Open(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
	}
}

// loadMaxRoot scans the root column for the highest rooted slot.
func (s *Store) loadMaxRoot(ctx context.Context) error {
	start, end := columnBounds(prefixRoot)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return err
	}
	defer iter.Close()

	var last uint64
	var any bool
	for iter.Next() {
		last = slotFromKey(iter.Key())
		any = true
	}
	if err := iter.Error(); err != nil {
		return err
	}
	if any {
		s.maxRoot.Store(last)
	}
	return nil
}

// initTransactionStatusIndexes seeds the two rotating transaction status
// ranges on first open.
func (s *Store) initTransactionStatusIndexes(ctx context.Context) error {
	for index := uint64(0); index < 2; index++ {
		key := txStatusIndexKey(index)
		ok, err := s.db.Has(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		record := meta.TransactionStatusIndexMeta{}
		data, err := record.MarshalBinary()
		if err != nil {
			return err
		}
		if err := s.db.Put(ctx, key, data); err != nil {
			return err
		}
	}
	return nil
}

// SlotMeta returns the progress record of a slot. The returned record is the
// caller's copy.
func (s *Store) SlotMeta(ctx context.Context, slot uint64) (*meta.SlotMeta, error) {
	if cached, ok := s.metaCache.Get(slot); ok {
		s.cacheHits.Add(1)
		return cached.Clone(), nil
	}
	s.cacheMisses.Add(1)

	m, err := s.readSlotMeta(ctx, slot)
	if err != nil {
		return nil, err
	}
	s.metaCache.Add(slot, m.Clone())
	return m, nil
}

func (s *Store) readSlotMeta(ctx context.Context, slot uint64) (*meta.SlotMeta, error) {
	data, err := s.db.Get(ctx, slotKey(prefixSlotMeta, slot))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, newStoreError("slot meta read", slot, ErrNotFound)
		}
		return nil, newStoreError("slot meta read", slot, err)
	}
	var m meta.SlotMeta
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, newStoreError("slot meta decode", slot, err)
	}
	return &m, nil
}

// HasSlotMeta reports whether a slot has a progress record.
func (s *Store) HasSlotMeta(ctx context.Context, slot uint64) (bool, error) {
	if _, ok := s.metaCache.Get(slot); ok {
		return true, nil
	}
	return s.db.Has(ctx, slotKey(prefixSlotMeta, slot))
}

// Index returns the shred presence sets of a slot, or an empty index if the
// slot has none yet.
func (s *Store) Index(ctx context.Context, slot uint64) (*meta.Index, error) {
	data, err := s.db.Get(ctx, slotKey(prefixIndex, slot))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return meta.NewIndex(slot), nil
		}
		return nil, newStoreError("index read", slot, err)
	}
	ix := meta.NewIndex(slot)
	if err := ix.UnmarshalBinary(data); err != nil {
		return nil, newStoreError("index decode", slot, err)
	}
	return ix, nil
}

// ErasureMeta returns the erasure set record at (slot, setIndex).
func (s *Store) ErasureMeta(ctx context.Context, slot, setIndex uint64) (meta.ErasureMeta, error) {
	var em meta.ErasureMeta
	data, err := s.db.Get(ctx, slotIndexKey(prefixErasureMeta, slot, setIndex))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return em, newStoreError("erasure meta read", slot, ErrNotFound)
		}
		return em, newStoreError("erasure meta read", slot, err)
	}
	if err := em.UnmarshalBinary(data); err != nil {
		return em, newStoreError("erasure meta decode", slot, err)
	}
	return em, nil
}

// ErasureMetas returns all erasure set records of a slot in set order.
func (s *Store) ErasureMetas(ctx context.Context, slot uint64) ([]meta.ErasureMeta, error) {
	start, end := slotBounds(prefixErasureMeta, slot, slot)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, newStoreError("erasure meta scan", slot, err)
	}
	defer iter.Close()

	var metas []meta.ErasureMeta
	for iter.Next() {
		var em meta.ErasureMeta
		if err := em.UnmarshalBinary(iter.Value()); err != nil {
			return nil, newStoreError("erasure meta decode", slot, err)
		}
		metas = append(metas, em)
	}
	if err := iter.Error(); err != nil {
		return nil, newStoreError("erasure meta scan", slot, err)
	}
	return metas, nil
}

// DataShred returns the payload of one data shred.
func (s *Store) DataShred(ctx context.Context, slot, index uint64) ([]byte, error) {
	return s.readShred(ctx, prefixDataShred, slot, index)
}

// CodeShred returns the payload of one coding shred.
func (s *Store) CodeShred(ctx context.Context, slot, index uint64) ([]byte, error) {
	return s.readShred(ctx, prefixCodeShred, slot, index)
}

func (s *Store) readShred(ctx context.Context, prefix byte, slot, index uint64) ([]byte, error) {
	stored, err := s.db.Get(ctx, slotIndexKey(prefix, slot, index))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, newStoreError("shred read", slot, ErrNotFound)
		}
		return nil, newStoreError("shred read", slot, err)
	}
	payload, err := unpackPayload(stored)
	if err != nil {
		return nil, newStoreError("shred unpack", slot, err)
	}
	return payload, nil
}

// IsFull reports whether the slot's data stream is complete.
func (s *Store) IsFull(ctx context.Context, slot uint64) (bool, error) {
	m, err := s.SlotMeta(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.IsFull(), nil
}

// IsConnected reports whether the slot chains fully back to the root.
func (s *Store) IsConnected(ctx context.Context, slot uint64) (bool, error) {
	m, err := s.SlotMeta(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.Connected, nil
}

// Orphans lists the slots currently waiting for their parents, in order.
func (s *Store) Orphans(ctx context.Context) ([]uint64, error) {
	start, end := columnBounds(prefixOrphan)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var orphans []uint64
	for iter.Next() {
		orphans = append(orphans, slotFromKey(iter.Key()))
	}
	return orphans, iter.Error()
}

// FrozenHash returns the frozen hash record of a slot.
func (s *Store) FrozenHash(ctx context.Context, slot uint64) (meta.FrozenHashVersioned, error) {
	data, err := s.db.Get(ctx, slotKey(prefixFrozenHash, slot))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, newStoreError("frozen hash read", slot, ErrNotFound)
		}
		return nil, newStoreError("frozen hash read", slot, err)
	}
	f, err := meta.UnmarshalFrozenHashVersioned(data)
	if err != nil {
		return nil, newStoreError("frozen hash decode", slot, err)
	}
	return f, nil
}

// SetFrozenHash records the frozen hash of a slot.
func (s *Store) SetFrozenHash(ctx context.Context, slot uint64, f meta.FrozenHashVersioned) error {
	data, err := meta.MarshalFrozenHashVersioned(f)
	if err != nil {
		return newStoreError("frozen hash encode", slot, err)
	}
	if err := s.db.Put(ctx, slotKey(prefixFrozenHash, slot), data); err != nil {
		return newStoreError("frozen hash write", slot, err)
	}
	return nil
}

// DuplicateSlotProof returns the stored duplicate evidence for a slot.
func (s *Store) DuplicateSlotProof(ctx context.Context, slot uint64) (meta.DuplicateSlotProof, error) {
	var proof meta.DuplicateSlotProof
	data, err := s.db.Get(ctx, slotKey(prefixDuplicateProof, slot))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return proof, newStoreError("duplicate proof read", slot, ErrNotFound)
		}
		return proof, newStoreError("duplicate proof read", slot, err)
	}
	if err := proof.UnmarshalBinary(data); err != nil {
		return proof, newStoreError("duplicate proof decode", slot, err)
	}
	return proof, nil
}

// StoreDuplicateSlotProof persists duplicate evidence for a slot. The first
// proof wins; later conflicts for the same slot are kept out so the original
// evidence is never overwritten.
func (s *Store) StoreDuplicateSlotProof(ctx context.Context, slot uint64, proof meta.DuplicateSlotProof) error {
	key := slotKey(prefixDuplicateProof, slot)
	ok, err := s.db.Has(ctx, key)
	if err != nil {
		return newStoreError("duplicate proof check", slot, err)
	}
	if ok {
		return nil
	}
	data, err := proof.MarshalBinary()
	if err != nil {
		return newStoreError("duplicate proof encode", slot, err)
	}
	if err := s.db.Put(ctx, key, data); err != nil {
		return newStoreError("duplicate proof write", slot, err)
	}
	s.log.WithFields(logrus.Fields{"slot": slot}).Warn("duplicate slot proof recorded")
	return nil
}

// IsDuplicateSlot reports whether duplicate evidence exists for a slot.
func (s *Store) IsDuplicateSlot(ctx context.Context, slot uint64) (bool, error) {
	return s.db.Has(ctx, slotKey(prefixDuplicateProof, slot))
}

// SetRoots marks slots as rooted and advances the max root watermark.
func (s *Store) SetRoots(ctx context.Context, slots ...uint64) error {
	if len(slots) == 0 {
		return nil
	}
	ops := make([]kv.BatchOperation, 0, len(slots))
	maxSeen := s.maxRoot.Load()
	for _, slot := range slots {
		ops = append(ops, kv.Put(slotKey(prefixRoot, slot), nil))
		if slot > maxSeen {
			maxSeen = slot
		}
	}
	if err := s.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("failed to set roots: %w", err)
	}
	s.maxRoot.Store(maxSeen)
	return nil
}

// IsRoot reports whether a slot is rooted.
func (s *Store) IsRoot(ctx context.Context, slot uint64) (bool, error) {
	return s.db.Has(ctx, slotKey(prefixRoot, slot))
}

// MaxRoot returns the highest rooted slot.
func (s *Store) MaxRoot() uint64 {
	return s.maxRoot.Load()
}

// ClearUnconfirmedSlot resets a slot to a fresh orphan, dropping its shreds,
// presence sets and erasure records while keeping the discovered children.
// Duplicate evidence and frozen hashes survive: they describe what was
// observed, not what is stored.
func (s *Store) ClearUnconfirmedSlot(ctx context.Context, slot uint64) error {
	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	m, err := s.SlotMeta(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	m.ClearUnconfirmed()

	data, err := m.MarshalBinary()
	if err != nil {
		return newStoreError("slot meta encode", slot, err)
	}
	ops := []kv.BatchOperation{
		kv.Put(slotKey(prefixSlotMeta, slot), data),
		kv.Del(slotKey(prefixIndex, slot)),
	}
	for _, prefix := range []byte{prefixErasureMeta, prefixDataShred, prefixCodeShred} {
		keys, err := s.collectSlotKeys(ctx, prefix, slot, slot)
		if err != nil {
			return newStoreError("slot scan", slot, err)
		}
		for _, key := range keys {
			ops = append(ops, kv.Del(key))
		}
	}
	if err := s.db.Batch(ctx, ops); err != nil {
		return newStoreError("clear unconfirmed", slot, err)
	}

	s.metaCache.Add(slot, m.Clone())
	s.log.WithFields(logrus.Fields{"slot": slot}).Info("unconfirmed slot cleared")
	return nil
}

// PurgeSlots deletes every record of slots [from, to] across all slot-keyed
// columns, then recomputes the max root watermark.
func (s *Store) PurgeSlots(ctx context.Context, from, to uint64) error {
	if from > to {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, from, to)
	}

	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	var ops []kv.BatchOperation
	prefixes := []byte{
		prefixSlotMeta, prefixIndex, prefixErasureMeta, prefixDataShred,
		prefixCodeShred, prefixDuplicateProof, prefixFrozenHash,
		prefixOrphan, prefixRoot, prefixPerfSample,
	}
	for _, prefix := range prefixes {
		keys, err := s.collectSlotKeys(ctx, prefix, from, to)
		if err != nil {
			return fmt.Errorf("failed to scan column %q: %w", prefix, err)
		}
		for _, key := range keys {
			ops = append(ops, kv.Del(key))
		}
	}
	if len(ops) == 0 {
		return nil
	}
	if err := s.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("failed to purge slots [%d, %d]: %w", from, to, err)
	}

	if to-from >= uint64(s.opts.CacheSize) {
		s.metaCache.Purge()
	} else {
		for slot := from; ; slot++ {
			s.metaCache.Remove(slot)
			if slot == to {
				break
			}
		}
	}
	if err := s.loadMaxRoot(ctx); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"from":    from,
		"to":      to,
		"deleted": len(ops),
	}).Info("slots purged")
	return nil
}

// collectSlotKeys gathers every key of one column for slots [from, to].
func (s *Store) collectSlotKeys(ctx context.Context, prefix byte, from, to uint64) ([][]byte, error) {
	start, end := slotBounds(prefix, from, to)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var keys [][]byte
	for iter.Next() {
		keys = append(keys, append([]byte(nil), iter.Key()...))
	}
	return keys, iter.Error()
}

// TransactionStatusIndexMeta returns the bookkeeping record of one of the two
// rotating transaction status ranges.
func (s *Store) TransactionStatusIndexMeta(ctx context.Context, index uint64) (meta.TransactionStatusIndexMeta, error) {
	var record meta.TransactionStatusIndexMeta
	data, err := s.db.Get(ctx, txStatusIndexKey(index))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return record, newStoreError("tx status index read", index, ErrNotFound)
		}
		return record, newStoreError("tx status index read", index, err)
	}
	if err := record.UnmarshalBinary(data); err != nil {
		return record, newStoreError("tx status index decode", index, err)
	}
	return record, nil
}

// PutTransactionStatusIndexMeta updates a transaction status range record.
func (s *Store) PutTransactionStatusIndexMeta(ctx context.Context, index uint64, record meta.TransactionStatusIndexMeta) error {
	data, err := record.MarshalBinary()
	if err != nil {
		return newStoreError("tx status index encode", index, err)
	}
	if err := s.db.Put(ctx, txStatusIndexKey(index), data); err != nil {
		return newStoreError("tx status index write", index, err)
	}
	return nil
}

// AddressSignatureEntry is one signature sighting of an address.
type AddressSignatureEntry struct {
	Slot      uint64
	Signature shred.Signature
	Writeable bool
}

// PutAddressSignature records that an address appeared in a transaction.
func (s *Store) PutAddressSignature(ctx context.Context, address [32]byte, slot uint64, signature shred.Signature, writeable bool) error {
	record := meta.AddressSignatureMeta{Writeable: writeable}
	data, err := record.MarshalBinary()
	if err != nil {
		return newStoreError("address signature encode", slot, err)
	}
	key := addressSignatureKey(address, slot, signature)
	if err := s.db.Put(ctx, key, data); err != nil {
		return newStoreError("address signature write", slot, err)
	}
	return nil
}

// AddressSignatures lists the recorded sightings of an address in slot order.
func (s *Store) AddressSignatures(ctx context.Context, address [32]byte) ([]AddressSignatureEntry, error) {
	start := addressSignatureKey(address, 0, shred.Signature{})
	end := make([]byte, 33)
	end[0] = prefixAddressSignature
	copy(end[1:], address[:])
	// Bump the address prefix to bound the scan to this address only.
	for i := len(end) - 1; i > 0; i-- {
		end[i]++
		if end[i] != 0 {
			break
		}
	}

	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []AddressSignatureEntry
	for iter.Next() {
		key := iter.Key()
		if len(key) != 1+32+8+shred.SignatureLen {
			continue
		}
		var entry AddressSignatureEntry
		entry.Slot = slotFromAddressSignatureKey(key)
		copy(entry.Signature[:], key[41:])

		var record meta.AddressSignatureMeta
		if err := record.UnmarshalBinary(iter.Value()); err != nil {
			return nil, fmt.Errorf("failed to decode address signature: %w", err)
		}
		entry.Writeable = record.Writeable
		entries = append(entries, entry)
	}
	return entries, iter.Error()
}

// PerfSampleEntry pairs a throughput sample with the slot it was taken at.
type PerfSampleEntry struct {
	Slot   uint64
	Sample meta.PerfSample
}

// RecordPerfSample stores a throughput sample keyed by slot.
func (s *Store) RecordPerfSample(ctx context.Context, slot uint64, sample meta.PerfSample) error {
	data, err := sample.MarshalBinary()
	if err != nil {
		return newStoreError("perf sample encode", slot, err)
	}
	if err := s.db.Put(ctx, slotKey(prefixPerfSample, slot), data); err != nil {
		return newStoreError("perf sample write", slot, err)
	}
	return nil
}

// PerfSamples returns up to limit samples ending at the most recent slot,
// newest first.
func (s *Store) PerfSamples(ctx context.Context, limit int) ([]PerfSampleEntry, error) {
	start, end := columnBounds(prefixPerfSample)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []PerfSampleEntry
	for iter.Next() {
		var sample meta.PerfSample
		if err := sample.UnmarshalBinary(iter.Value()); err != nil {
			return nil, fmt.Errorf("failed to decode perf sample: %w", err)
		}
		entries = append(entries, PerfSampleEntry{Slot: slotFromKey(iter.Key()), Sample: sample})
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	// Newest first, clipped to the requested window.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ProgramCostEntry pairs a program with its accumulated cost record.
type ProgramCostEntry struct {
	ProgramID [32]byte
	Cost      meta.ProgramCost
}

// PutProgramCost stores the accumulated cost of a program.
func (s *Store) PutProgramCost(ctx context.Context, programID [32]byte, cost meta.ProgramCost) error {
	data, err := cost.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode program cost: %w", err)
	}
	return s.db.Put(ctx, programCostKey(programID), data)
}

// ProgramCosts lists every stored program cost record.
func (s *Store) ProgramCosts(ctx context.Context) ([]ProgramCostEntry, error) {
	start, end := columnBounds(prefixProgramCost)
	iter, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []ProgramCostEntry
	for iter.Next() {
		key := iter.Key()
		if len(key) != 33 {
			continue
		}
		var entry ProgramCostEntry
		copy(entry.ProgramID[:], key[1:])
		if err := entry.Cost.UnmarshalBinary(iter.Value()); err != nil {
			return nil, fmt.Errorf("failed to decode program cost: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, iter.Error()
}

// slotFromAddressSignatureKey extracts the slot component of an address
// signature key.
func slotFromAddressSignatureKey(key []byte) uint64 {
	if len(key) < 41 {
		return 0
	}
	return binary.BigEndian.Uint64(key[33:41])
}

// CacheStats reports the SlotMeta read cache counters.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// CacheStats returns a snapshot of the read cache counters.
func (s *Store) CacheStats() CacheStats {
	return CacheStats{
		Hits:    s.cacheHits.Load(),
		Misses:  s.cacheMisses.Load(),
		Entries: s.metaCache.Len(),
	}
}

// InsertStats reports cumulative insert pipeline counters since Open.
type InsertStats struct {
	ShredsInserted uint64
	SlotsCompleted uint64
	BatchesWritten uint64
}

// InsertStats returns a snapshot of the insert pipeline counters.
func (s *Store) InsertStats() InsertStats {
	return InsertStats{
		ShredsInserted: s.shredsInserted.Load(),
		SlotsCompleted: s.slotsCompleted.Load(),
		BatchesWritten: s.batchesWritten.Load(),
	}
}
