package meta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/LeJamon/goShredstore/internal/core/erasure"
)

// Binary layout of the persisted records, little endian throughout:
// integers at their natural width, bool as one byte, collections as a u64
// count followed by the elements, variants as a u32 tag followed by the
// payload, hashes as 32 raw bytes, blobs as a u64 length followed by the
// bytes. The layout matches what previous writers of these records produced,
// including the max-value sentinels standing in for unknown last index and
// unknown parent.

var (
	// ErrCorruptRecord reports a record that cannot be decoded.
	ErrCorruptRecord = errors.New("meta: corrupt record")
	// ErrUnknownVariant reports a versioned record with an unrecognized tag.
	ErrUnknownVariant = errors.New("meta: unknown record variant")
)

// noIndex is the serialized stand-in for an unknown last index or parent.
const noIndex = math.MaxUint64

type byteReader struct {
	buf []byte
	off int
	err error
}

func (r *byteReader) fail(msg string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s", ErrCorruptRecord, msg)
	}
}

func (r *byteReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf)-r.off < n {
		r.fail("short buffer")
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *byteReader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *byteReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *byteReader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *byteReader) bool8() bool {
	b := r.take(1)
	if b == nil {
		return false
	}
	if b[0] > 1 {
		r.fail("invalid bool byte")
		return false
	}
	return b[0] == 1
}

// count reads a collection length and rejects counts that cannot fit in the
// remaining buffer.
func (r *byteReader) count(elemSize int) int {
	n := r.u64()
	if r.err != nil {
		return 0
	}
	if n > uint64(len(r.buf)-r.off)/uint64(elemSize) {
		r.fail("collection count exceeds buffer")
		return 0
	}
	return int(n)
}

func (r *byteReader) finish(what string) error {
	if r.err != nil {
		return fmt.Errorf("%s: %w", what, r.err)
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("%s: %w: %d trailing bytes", what, ErrCorruptRecord, len(r.buf)-r.off)
	}
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func appendOptionalU64(buf []byte, v *uint64) []byte {
	if v == nil {
		return binary.LittleEndian.AppendUint64(buf, noIndex)
	}
	return binary.LittleEndian.AppendUint64(buf, *v)
}

func optionalU64(v uint64) *uint64 {
	if v == noIndex {
		return nil
	}
	return &v
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *SlotMeta) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 64+8*len(m.NextSlots)+4*len(m.CompletedDataIndexes))
	buf = binary.LittleEndian.AppendUint64(buf, m.Slot)
	buf = binary.LittleEndian.AppendUint64(buf, m.Consumed)
	buf = binary.LittleEndian.AppendUint64(buf, m.Received)
	buf = binary.LittleEndian.AppendUint64(buf, m.FirstShredTimestamp)
	buf = appendOptionalU64(buf, m.LastIndex)
	buf = appendOptionalU64(buf, m.ParentSlot)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(m.NextSlots)))
	for _, s := range m.NextSlots {
		buf = binary.LittleEndian.AppendUint64(buf, s)
	}
	buf = append(buf, boolByte(m.Connected))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(m.CompletedDataIndexes)))
	for _, i := range m.CompletedDataIndexes {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *SlotMeta) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}
	m.Slot = r.u64()
	m.Consumed = r.u64()
	m.Received = r.u64()
	m.FirstShredTimestamp = r.u64()
	m.LastIndex = optionalU64(r.u64())
	m.ParentSlot = optionalU64(r.u64())

	m.NextSlots = nil
	if n := r.count(8); n > 0 {
		m.NextSlots = make([]uint64, n)
		for i := range m.NextSlots {
			m.NextSlots[i] = r.u64()
		}
	}
	m.Connected = r.bool8()
	m.CompletedDataIndexes = nil
	if n := r.count(4); n > 0 {
		m.CompletedDataIndexes = make([]uint32, n)
		for i := range m.CompletedDataIndexes {
			m.CompletedDataIndexes[i] = r.u32()
		}
	}
	return r.finish("slot meta")
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *ShredIndex) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 8+8*len(s.index))
	return s.appendTo(buf), nil
}

func (s *ShredIndex) appendTo(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s.index)))
	for _, i := range s.index {
		buf = binary.LittleEndian.AppendUint64(buf, i)
	}
	return buf
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *ShredIndex) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}
	s.readFrom(r)
	return r.finish("shred index")
}

// readFrom decodes the set and verifies the stored order, so a corrupted
// record cannot break the binary-search invariant.
func (s *ShredIndex) readFrom(r *byteReader) {
	s.index = nil
	n := r.count(8)
	if n == 0 {
		return
	}
	s.index = make([]uint64, n)
	for i := range s.index {
		s.index[i] = r.u64()
		if i > 0 && r.err == nil && s.index[i] <= s.index[i-1] {
			r.fail("presence set out of order")
			return
		}
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (ix *Index) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 24+8*(len(ix.data.index)+len(ix.coding.index)))
	buf = binary.LittleEndian.AppendUint64(buf, ix.slot)
	buf = ix.data.appendTo(buf)
	buf = ix.coding.appendTo(buf)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (ix *Index) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}
	ix.slot = r.u64()
	ix.data.readFrom(r)
	ix.coding.readFrom(r)
	return r.finish("index")
}

// MarshalBinary implements encoding.BinaryMarshaler. The record keeps the
// legacy field layout: set index, first coding index exactly as stored (no
// fallback applied), the dead size field, then the erasure configuration.
func (m *ErasureMeta) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 40)
	buf = binary.LittleEndian.AppendUint64(buf, m.setIndex)
	buf = binary.LittleEndian.AppendUint64(buf, m.firstCodingIndex)
	buf = binary.LittleEndian.AppendUint64(buf, m.legacySize)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.config.NumData()))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.config.NumCoding()))
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *ErasureMeta) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}
	m.setIndex = r.u64()
	m.firstCodingIndex = r.u64()
	m.legacySize = r.u64()
	numData := r.u64()
	numCoding := r.u64()
	if err := r.finish("erasure meta"); err != nil {
		return err
	}
	if numData > math.MaxInt32 || numCoding > math.MaxInt32 {
		return fmt.Errorf("erasure meta: %w: config %d/%d out of range", ErrCorruptRecord, numData, numCoding)
	}
	m.config = erasure.NewConfig(int(numData), int(numCoding))
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *DuplicateSlotProof) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 16+len(p.Shred1)+len(p.Shred2))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(p.Shred1)))
	buf = append(buf, p.Shred1...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(p.Shred2)))
	buf = append(buf, p.Shred2...)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *DuplicateSlotProof) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}
	p.Shred1 = append([]byte(nil), r.take(r.count(1))...)
	p.Shred2 = append([]byte(nil), r.take(r.count(1))...)
	return r.finish("duplicate slot proof")
}

// MarshalFrozenHashVersioned serializes the record as its variant tag
// followed by the variant payload.
func MarshalFrozenHashVersioned(f FrozenHashVersioned) ([]byte, error) {
	switch v := f.(type) {
	case FrozenHashStatus:
		buf := make([]byte, 0, 37)
		buf = binary.LittleEndian.AppendUint32(buf, v.frozenHashVersion())
		buf = append(buf, v.Hash[:]...)
		buf = append(buf, boolByte(v.DuplicateConfirmed))
		return buf, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownVariant, f)
	}
}

// UnmarshalFrozenHashVersioned decodes a frozen hash record, selecting the
// variant by its tag.
func UnmarshalFrozenHashVersioned(data []byte) (FrozenHashVersioned, error) {
	r := &byteReader{buf: data}
	tag := r.u32()
	if r.err != nil {
		return nil, r.finish("frozen hash")
	}
	switch tag {
	case frozenHashVersionCurrent:
		var s FrozenHashStatus
		copy(s.Hash[:], r.take(len(s.Hash)))
		s.DuplicateConfirmed = r.bool8()
		if err := r.finish("frozen hash"); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("frozen hash: %w: tag %d", ErrUnknownVariant, tag)
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *TransactionStatusIndexMeta) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 9)
	buf = binary.LittleEndian.AppendUint64(buf, m.MaxSlot)
	buf = append(buf, boolByte(m.Frozen))
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *TransactionStatusIndexMeta) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}
	m.MaxSlot = r.u64()
	m.Frozen = r.bool8()
	return r.finish("transaction status index meta")
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *AddressSignatureMeta) MarshalBinary() ([]byte, error) {
	return []byte{boolByte(m.Writeable)}, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *AddressSignatureMeta) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}
	m.Writeable = r.bool8()
	return r.finish("address signature meta")
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *PerfSample) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 18)
	buf = binary.LittleEndian.AppendUint64(buf, p.NumTransactions)
	buf = binary.LittleEndian.AppendUint64(buf, p.NumSlots)
	buf = binary.LittleEndian.AppendUint16(buf, p.SamplePeriodSecs)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *PerfSample) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}
	p.NumTransactions = r.u64()
	p.NumSlots = r.u64()
	p.SamplePeriodSecs = r.u16()
	return r.finish("perf sample")
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *ProgramCost) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 8)
	return binary.LittleEndian.AppendUint64(buf, c.Cost), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *ProgramCost) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}
	c.Cost = r.u64()
	return r.finish("program cost")
}
