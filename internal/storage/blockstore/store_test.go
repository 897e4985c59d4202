package blockstore_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
	"github.com/LeJamon/goShredstore/internal/core/shred"
	"github.com/LeJamon/goShredstore/internal/storage/blockstore"
	"github.com/LeJamon/goShredstore/internal/types"
)

func openTestStore(t *testing.T) *blockstore.Store {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	s, err := blockstore.Open(blockstore.Options{
		Path:   t.TempDir(),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// slotShreds builds a complete run of data shreds for a slot, flagging the
// final one as last in slot.
func slotShreds(slot uint64, parentOffset uint16, count int) []*shred.Shred {
	shreds := make([]*shred.Shred, count)
	for i := 0; i < count; i++ {
		var flags uint8
		if i == count-1 {
			flags = shred.FlagLastInSlot
		}
		payload := []byte(fmt.Sprintf("slot-%d-shred-%d", slot, i))
		shreds[i] = shred.NewDataShred(slot, uint32(i), parentOffset, flags, 1, 0, payload)
	}
	return shreds
}

func mustInsert(t *testing.T, s *blockstore.Store, shreds []*shred.Shred) *blockstore.InsertResult {
	t.Helper()
	res, err := s.InsertShreds(context.Background(), shreds)
	if err != nil {
		t.Fatalf("insert shreds: %v", err)
	}
	return res
}

func TestInsertTracksSlotProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := mustInsert(t, s, slotShreds(0, 0, 3))
	if res.NumInserted != 3 || res.NumSkipped != 0 {
		t.Fatalf("got inserted=%d skipped=%d, want 3/0", res.NumInserted, res.NumSkipped)
	}

	m, err := s.SlotMeta(ctx, 0)
	if err != nil {
		t.Fatalf("slot meta: %v", err)
	}
	if m.Consumed != 3 || m.Received != 3 {
		t.Errorf("got consumed=%d received=%d, want 3/3", m.Consumed, m.Received)
	}
	if last, ok := m.KnownLastIndex(); !ok || last != 2 {
		t.Errorf("got last index (%d, %v), want (2, true)", last, ok)
	}
	if !m.IsFull() {
		t.Error("slot should be full")
	}
	if !m.Connected {
		t.Error("slot 0 should be connected")
	}

	ix, err := s.Index(ctx, 0)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if got := ix.Data().NumShreds(); got != 3 {
		t.Errorf("got %d data shreds present, want 3", got)
	}

	raw, err := s.DataShred(ctx, 0, 1)
	if err != nil {
		t.Fatalf("data shred: %v", err)
	}
	decoded, err := shred.Decode(raw)
	if err != nil {
		t.Fatalf("decode stored shred: %v", err)
	}
	if decoded.Slot != 0 || decoded.Index != 1 {
		t.Errorf("stored shred decodes to slot=%d index=%d", decoded.Slot, decoded.Index)
	}
	if !strings.Contains(string(decoded.Payload), "slot-0-shred-1") {
		t.Errorf("unexpected payload %q", decoded.Payload)
	}

	if len(res.Completed) != 1 || res.Completed[0] != (blockstore.CompletedDataSetInfo{Slot: 0, StartIndex: 0, EndIndex: 2}) {
		t.Errorf("got completed sets %+v, want one covering [0, 2]", res.Completed)
	}
}

func TestInsertOutOfOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	shreds := slotShreds(3, 1, 3)
	mustInsert(t, s, []*shred.Shred{shreds[2], shreds[0]})

	m, err := s.SlotMeta(ctx, 3)
	if err != nil {
		t.Fatalf("slot meta: %v", err)
	}
	if m.Consumed != 1 || m.Received != 3 {
		t.Fatalf("got consumed=%d received=%d, want 1/3", m.Consumed, m.Received)
	}
	if m.IsFull() {
		t.Fatal("slot should not be full with a hole at index 1")
	}

	mustInsert(t, s, []*shred.Shred{shreds[1]})
	m, err = s.SlotMeta(ctx, 3)
	if err != nil {
		t.Fatalf("slot meta: %v", err)
	}
	if m.Consumed != 3 {
		t.Errorf("got consumed=%d after filling the hole, want 3", m.Consumed)
	}
	if !m.IsFull() {
		t.Error("slot should be full")
	}
}

func TestDuplicateShredSkipped(t *testing.T) {
	s := openTestStore(t)

	shreds := slotShreds(7, 1, 2)
	mustInsert(t, s, shreds)

	res := mustInsert(t, s, shreds[:1])
	if res.NumInserted != 0 || res.NumSkipped != 1 {
		t.Errorf("got inserted=%d skipped=%d for duplicate, want 0/1", res.NumInserted, res.NumSkipped)
	}
}

func TestShredPastLastIndexLeavesEvidence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mustInsert(t, s, slotShreds(9, 1, 2))

	stray := shred.NewDataShred(9, 5, 1, 0, 1, 0, []byte("beyond the end"))
	res := mustInsert(t, s, []*shred.Shred{stray})
	if res.NumInserted != 0 || res.NumSkipped != 1 {
		t.Fatalf("got inserted=%d skipped=%d, want 0/1", res.NumInserted, res.NumSkipped)
	}

	dup, err := s.IsDuplicateSlot(ctx, 9)
	if err != nil {
		t.Fatalf("duplicate check: %v", err)
	}
	if !dup {
		t.Fatal("conflict should have recorded duplicate evidence")
	}
	proof, err := s.DuplicateSlotProof(ctx, 9)
	if err != nil {
		t.Fatalf("duplicate proof: %v", err)
	}
	if !bytes.Equal(proof.Shred2, stray.Encode()) {
		t.Error("proof should carry the conflicting shred verbatim")
	}
	if len(proof.Shred1) == 0 {
		t.Error("proof should carry the previously stored last shred")
	}
}

func TestChainingAndConnectivity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// The child of slot 1 arrives first: slot 1 becomes an orphan
	// placeholder holding the child link.
	mustInsert(t, s, slotShreds(2, 1, 2))

	orphans, err := s.Orphans(ctx)
	if err != nil {
		t.Fatalf("orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0] != 1 {
		t.Fatalf("got orphans %v, want [1]", orphans)
	}
	parent, err := s.SlotMeta(ctx, 1)
	if err != nil {
		t.Fatalf("placeholder meta: %v", err)
	}
	if !parent.IsOrphan() {
		t.Error("placeholder parent should be an orphan")
	}
	if len(parent.NextSlots) != 1 || parent.NextSlots[0] != 2 {
		t.Errorf("got parent next slots %v, want [2]", parent.NextSlots)
	}
	child, err := s.SlotMeta(ctx, 2)
	if err != nil {
		t.Fatalf("child meta: %v", err)
	}
	if !child.IsFull() || child.Connected {
		t.Errorf("child should be full but unconnected, got full=%v connected=%v", child.IsFull(), child.Connected)
	}

	// Root fills up; it is connected from birth.
	mustInsert(t, s, slotShreds(0, 0, 2))

	// Slot 1 fills and names its parent: the orphan resolves and
	// connectivity cascades through the already-full child.
	mustInsert(t, s, slotShreds(1, 1, 2))

	orphans, err = s.Orphans(ctx)
	if err != nil {
		t.Fatalf("orphans: %v", err)
	}
	if len(orphans) != 0 {
		t.Errorf("got orphans %v after resolution, want none", orphans)
	}
	for _, slot := range []uint64{0, 1, 2} {
		m, err := s.SlotMeta(ctx, slot)
		if err != nil {
			t.Fatalf("slot %d meta: %v", slot, err)
		}
		if !m.Connected {
			t.Errorf("slot %d should be connected", slot)
		}
	}
	root, err := s.SlotMeta(ctx, 0)
	if err != nil {
		t.Fatalf("root meta: %v", err)
	}
	if len(root.NextSlots) != 1 || root.NextSlots[0] != 1 {
		t.Errorf("got root next slots %v, want [1]", root.NextSlots)
	}
}

func TestRecoverableErasureSet(t *testing.T) {
	s := openTestStore(t)

	// Shape (4 data, 2 coding), three data shreds missing one, full parity:
	// 3 + 2 >= 4, so the set is reconstructable.
	shreds := []*shred.Shred{
		shred.NewDataShred(4, 0, 1, 0, 1, 0, []byte("d0")),
		shred.NewDataShred(4, 1, 1, 0, 1, 0, []byte("d1")),
		shred.NewDataShred(4, 2, 1, 0, 1, 0, []byte("d2")),
		shred.NewCodeShred(4, 0, 1, 0, 4, 2, 0, []byte("c0")),
		shred.NewCodeShred(4, 1, 1, 0, 4, 2, 1, []byte("c1")),
	}
	res := mustInsert(t, s, shreds)
	if res.NumInserted != 5 {
		t.Fatalf("got %d inserted, want 5", res.NumInserted)
	}
	if len(res.Recoverable) != 1 {
		t.Fatalf("got %d recoverable sets, want 1", len(res.Recoverable))
	}
	set := res.Recoverable[0]
	if set.Slot != 4 || set.SetIndex != 0 {
		t.Errorf("got recoverable set (%d, %d), want (4, 0)", set.Slot, set.SetIndex)
	}
	if st := set.Meta.Status(mustIndex(t, s, 4)); st.State != meta.ErasureCanRecover {
		t.Errorf("got status %v, want can_recover", st)
	}

	// The last data shred arrives: nothing left to reconstruct.
	res = mustInsert(t, s, []*shred.Shred{
		shred.NewDataShred(4, 3, 1, 0, 1, 0, []byte("d3")),
	})
	if len(res.Recoverable) != 0 {
		t.Errorf("got %d recoverable sets after data completed, want 0", len(res.Recoverable))
	}
}

func mustIndex(t *testing.T, s *blockstore.Store, slot uint64) *meta.Index {
	t.Helper()
	ix, err := s.Index(context.Background(), slot)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	return ix
}

func TestCodingShredConfigConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := shred.NewCodeShred(6, 0, 1, 0, 4, 2, 0, []byte("parity"))
	mustInsert(t, s, []*shred.Shred{first})

	// Same set, different shape.
	conflicting := shred.NewCodeShred(6, 1, 1, 0, 8, 4, 1, []byte("imposter"))
	res := mustInsert(t, s, []*shred.Shred{conflicting})
	if res.NumInserted != 0 || res.NumSkipped != 1 {
		t.Fatalf("got inserted=%d skipped=%d, want 0/1", res.NumInserted, res.NumSkipped)
	}
	dup, err := s.IsDuplicateSlot(ctx, 6)
	if err != nil {
		t.Fatalf("duplicate check: %v", err)
	}
	if !dup {
		t.Error("config conflict should have recorded duplicate evidence")
	}
}

func TestClearUnconfirmedSlot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Child 6 first, so slot 5 carries a child link, then fill slot 5 with
	// data and parity.
	mustInsert(t, s, slotShreds(6, 1, 2))
	batch := slotShreds(5, 1, 3)
	batch = append(batch, shred.NewCodeShred(5, 0, 1, 0, 3, 1, 0, []byte("parity")))
	mustInsert(t, s, batch)

	if err := s.ClearUnconfirmedSlot(ctx, 5); err != nil {
		t.Fatalf("clear unconfirmed: %v", err)
	}

	m, err := s.SlotMeta(ctx, 5)
	if err != nil {
		t.Fatalf("slot meta: %v", err)
	}
	if !m.IsOrphan() {
		t.Error("cleared slot should be an orphan")
	}
	if m.Consumed != 0 || m.Received != 0 {
		t.Errorf("got consumed=%d received=%d after clear, want 0/0", m.Consumed, m.Received)
	}
	if len(m.NextSlots) != 1 || m.NextSlots[0] != 6 {
		t.Errorf("got next slots %v, want preserved [6]", m.NextSlots)
	}

	if _, err := s.DataShred(ctx, 5, 0); !errors.Is(err, blockstore.ErrNotFound) {
		t.Errorf("got %v reading cleared shred, want ErrNotFound", err)
	}
	ix := mustIndex(t, s, 5)
	if ix.Data().NumShreds() != 0 {
		t.Error("presence set should be empty after clear")
	}
	metas, err := s.ErasureMetas(ctx, 5)
	if err != nil {
		t.Fatalf("erasure metas: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("got %d erasure records after clear, want 0", len(metas))
	}
}

func TestRootsAndPurge(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	path := t.TempDir()
	s, err := blockstore.Open(blockstore.Options{Path: path, Logger: logger})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()

	mustInsert(t, s, slotShreds(1, 1, 2))
	mustInsert(t, s, slotShreds(2, 1, 2))
	mustInsert(t, s, slotShreds(3, 1, 2))

	if err := s.SetRoots(ctx, 1, 2, 3); err != nil {
		t.Fatalf("set roots: %v", err)
	}
	if got := s.MaxRoot(); got != 3 {
		t.Fatalf("got max root %d, want 3", got)
	}
	isRoot, err := s.IsRoot(ctx, 2)
	if err != nil {
		t.Fatalf("is root: %v", err)
	}
	if !isRoot {
		t.Error("slot 2 should be rooted")
	}

	if err := s.PurgeSlots(ctx, 2, 3); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, err := s.SlotMeta(ctx, 2); !errors.Is(err, blockstore.ErrNotFound) {
		t.Errorf("got %v reading purged meta, want ErrNotFound", err)
	}
	isRoot, err = s.IsRoot(ctx, 3)
	if err != nil {
		t.Fatalf("is root: %v", err)
	}
	if isRoot {
		t.Error("purged slot should not stay rooted")
	}
	if got := s.MaxRoot(); got != 1 {
		t.Errorf("got max root %d after purge, want 1", got)
	}

	// The watermark survives a reopen.
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	s, err = blockstore.Open(blockstore.Options{Path: path, Logger: logger})
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()
	if got := s.MaxRoot(); got != 1 {
		t.Errorf("got max root %d after reopen, want 1", got)
	}
}

func TestPurgeRejectsInvertedRange(t *testing.T) {
	s := openTestStore(t)
	if err := s.PurgeSlots(context.Background(), 5, 2); !errors.Is(err, blockstore.ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}
}

func TestFrozenHashRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	status := meta.FrozenHashStatus{
		Hash:               types.Hash256FromData([]byte("bank state")),
		DuplicateConfirmed: true,
	}
	if err := s.SetFrozenHash(ctx, 12, status); err != nil {
		t.Fatalf("set frozen hash: %v", err)
	}
	got, err := s.FrozenHash(ctx, 12)
	if err != nil {
		t.Fatalf("frozen hash: %v", err)
	}
	if got.FrozenHash() != status.Hash {
		t.Error("hash did not round trip")
	}
	if !got.IsDuplicateConfirmed() {
		t.Error("duplicate confirmation flag lost")
	}

	if _, err := s.FrozenHash(ctx, 13); !errors.Is(err, blockstore.ErrNotFound) {
		t.Errorf("got %v for absent record, want ErrNotFound", err)
	}
}

func TestPerfSamplesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for slot := uint64(1); slot <= 3; slot++ {
		sample := meta.PerfSample{
			NumTransactions:  slot * 100,
			NumSlots:         1,
			SamplePeriodSecs: 60,
		}
		if err := s.RecordPerfSample(ctx, slot, sample); err != nil {
			t.Fatalf("record sample: %v", err)
		}
	}

	samples, err := s.PerfSamples(ctx, 2)
	if err != nil {
		t.Fatalf("perf samples: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if samples[0].Slot != 3 || samples[1].Slot != 2 {
		t.Errorf("got slots [%d %d], want newest first [3 2]", samples[0].Slot, samples[1].Slot)
	}
	if samples[0].Sample.NumTransactions != 300 {
		t.Errorf("got %d transactions, want 300", samples[0].Sample.NumTransactions)
	}
}

func TestTransactionStatusIndexes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Both rotating ranges are seeded at open.
	for index := uint64(0); index < 2; index++ {
		record, err := s.TransactionStatusIndexMeta(ctx, index)
		if err != nil {
			t.Fatalf("tx status index %d: %v", index, err)
		}
		if record.MaxSlot != 0 || record.Frozen {
			t.Errorf("index %d should start zeroed, got %+v", index, record)
		}
	}

	updated := meta.TransactionStatusIndexMeta{MaxSlot: 900, Frozen: true}
	if err := s.PutTransactionStatusIndexMeta(ctx, 0, updated); err != nil {
		t.Fatalf("put tx status index: %v", err)
	}
	record, err := s.TransactionStatusIndexMeta(ctx, 0)
	if err != nil {
		t.Fatalf("tx status index: %v", err)
	}
	if record != updated {
		t.Errorf("got %+v, want %+v", record, updated)
	}
}

func TestAddressSignatures(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var addr [32]byte
	copy(addr[:], "some program address")
	var sigA, sigB shred.Signature
	sigA[0], sigB[0] = 0xaa, 0xbb

	if err := s.PutAddressSignature(ctx, addr, 3, sigA, true); err != nil {
		t.Fatalf("put signature: %v", err)
	}
	if err := s.PutAddressSignature(ctx, addr, 1, sigB, false); err != nil {
		t.Fatalf("put signature: %v", err)
	}

	entries, err := s.AddressSignatures(ctx, addr)
	if err != nil {
		t.Fatalf("address signatures: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Slot != 1 || entries[1].Slot != 3 {
		t.Errorf("got slot order [%d %d], want ascending [1 3]", entries[0].Slot, entries[1].Slot)
	}
	if entries[0].Writeable || !entries[1].Writeable {
		t.Error("writeable flags did not round trip")
	}
	if entries[1].Signature != sigA {
		t.Error("signature did not round trip")
	}

	var other [32]byte
	other[0] = 0xff
	entries, err = s.AddressSignatures(ctx, other)
	if err != nil {
		t.Fatalf("address signatures: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries for unseen address, want 0", len(entries))
	}
}

func TestProgramCosts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var idA, idB [32]byte
	idA[0], idB[0] = 1, 2
	if err := s.PutProgramCost(ctx, idB, meta.ProgramCost{Cost: 2000}); err != nil {
		t.Fatalf("put cost: %v", err)
	}
	if err := s.PutProgramCost(ctx, idA, meta.ProgramCost{Cost: 1000}); err != nil {
		t.Fatalf("put cost: %v", err)
	}

	entries, err := s.ProgramCosts(ctx)
	if err != nil {
		t.Fatalf("program costs: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ProgramID != idA || entries[0].Cost.Cost != 1000 {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
}

func TestSlotMetaIterator(t *testing.T) {
	s := openTestStore(t)

	for slot := uint64(0); slot < 4; slot++ {
		offset := uint16(1)
		if slot == 0 {
			offset = 0
		}
		mustInsert(t, s, slotShreds(slot, offset, 2))
	}

	it, err := s.SlotMetaIterator(context.Background(), 2)
	if err != nil {
		t.Fatalf("iterator: %v", err)
	}
	defer it.Close()

	var slots []uint64
	for it.Next() {
		slots = append(slots, it.Meta().Slot)
	}
	if err := it.Error(); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(slots) != 2 || slots[0] != 2 || slots[1] != 3 {
		t.Errorf("got slots %v, want [2 3]", slots)
	}
}

func TestCompressedPayloadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Highly repetitive payload well past the compression threshold.
	payload := bytes.Repeat([]byte("ledger entry data "), 64)
	sh := shred.NewDataShred(20, 0, 1, shred.FlagLastInSlot, 1, 0, payload)
	mustInsert(t, s, []*shred.Shred{sh})

	raw, err := s.DataShred(ctx, 20, 0)
	if err != nil {
		t.Fatalf("data shred: %v", err)
	}
	if !bytes.Equal(raw, sh.Encode()) {
		t.Error("stored shred did not survive the compression round trip")
	}
}

func TestAuditCleanStore(t *testing.T) {
	s := openTestStore(t)

	mustInsert(t, s, slotShreds(0, 0, 3))
	batch := slotShreds(1, 1, 2)
	batch = append(batch, shred.NewCodeShred(1, 0, 1, 0, 2, 1, 0, []byte("parity")))
	mustInsert(t, s, batch)

	report, err := s.Audit(context.Background())
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !report.Ok() {
		t.Fatalf("audit found issues on a healthy store: %v", report.Issues)
	}
	if report.SlotsChecked != 2 {
		t.Errorf("got %d slots checked, want 2", report.SlotsChecked)
	}
	if report.ShredsChecked != 6 {
		t.Errorf("got %d shreds checked, want 6", report.ShredsChecked)
	}
}

func TestLevelDBBackend(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s, err := blockstore.Open(blockstore.Options{
		Path:    t.TempDir(),
		Backend: "leveldb",
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("open leveldb store: %v", err)
	}
	defer s.Close()

	res, err := s.InsertShreds(context.Background(), slotShreds(0, 0, 2))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if res.NumInserted != 2 {
		t.Fatalf("got %d inserted, want 2", res.NumInserted)
	}
	m, err := s.SlotMeta(context.Background(), 0)
	if err != nil {
		t.Fatalf("slot meta: %v", err)
	}
	if !m.IsFull() {
		t.Error("slot should be full")
	}
}

func TestUnsupportedBackend(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	_, err := blockstore.Open(blockstore.Options{
		Path:    t.TempDir(),
		Backend: "bolt",
		Logger:  logger,
	})
	if !errors.Is(err, blockstore.ErrUnsupportedBackend) {
		t.Errorf("got %v, want ErrUnsupportedBackend", err)
	}
}

func TestShredVersionFilter(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s, err := blockstore.Open(blockstore.Options{
		Path:         t.TempDir(),
		ShredVersion: 7,
		Logger:       logger,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	foreign := shred.NewDataShred(0, 0, 0, 0, 9, 0, []byte("wrong network"))
	native := shred.NewDataShred(0, 1, 0, 0, 7, 0, []byte("right network"))
	res, err := s.InsertShreds(context.Background(), []*shred.Shred{foreign, native})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if res.NumInserted != 1 || res.NumSkipped != 1 {
		t.Errorf("got inserted=%d skipped=%d, want 1/1", res.NumInserted, res.NumSkipped)
	}
}
