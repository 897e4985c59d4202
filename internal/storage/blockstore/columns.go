package blockstore

import (
	"encoding/binary"
	"math"

	"github.com/LeJamon/goShredstore/internal/core/shred"
)

// Column keyspaces. Every record lives under a one-byte prefix followed by
// big-endian components, so iterating a prefix walks slots in order:
//
//	'm' + slot                     -> serialized SlotMeta
//	'i' + slot                     -> serialized Index
//	'e' + slot + setIndex          -> serialized ErasureMeta
//	'd' + slot + shredIndex        -> framed data shred payload
//	'c' + slot + shredIndex        -> framed coding shred payload
//	'u' + slot                     -> serialized DuplicateSlotProof
//	'h' + slot                     -> serialized FrozenHashVersioned
//	'o' + slot                     -> orphan marker (empty value)
//	'r' + slot                     -> root marker (empty value)
//	't' + index                    -> serialized TransactionStatusIndexMeta
//	'a' + address + slot + sig     -> serialized AddressSignatureMeta
//	'p' + slot                     -> serialized PerfSample
//	'g' + programID                -> serialized ProgramCost
const (
	prefixSlotMeta         = 'm'
	prefixIndex            = 'i'
	prefixErasureMeta      = 'e'
	prefixDataShred        = 'd'
	prefixCodeShred        = 'c'
	prefixDuplicateProof   = 'u'
	prefixFrozenHash       = 'h'
	prefixOrphan           = 'o'
	prefixRoot             = 'r'
	prefixTxStatusIndex    = 't'
	prefixAddressSignature = 'a'
	prefixPerfSample       = 'p'
	prefixProgramCost      = 'g'
)

// slotKey builds a slot-scoped column key.
func slotKey(prefix byte, slot uint64) []byte {
	key := make([]byte, 9)
	key[0] = prefix
	binary.BigEndian.PutUint64(key[1:], slot)
	return key
}

// slotIndexKey builds a key scoped to one entry within a slot.
func slotIndexKey(prefix byte, slot, index uint64) []byte {
	key := make([]byte, 17)
	key[0] = prefix
	binary.BigEndian.PutUint64(key[1:9], slot)
	binary.BigEndian.PutUint64(key[9:], index)
	return key
}

// slotFromKey reads the slot component back out of a column key.
func slotFromKey(key []byte) uint64 {
	if len(key) < 9 {
		return 0
	}
	return binary.BigEndian.Uint64(key[1:9])
}

// indexFromKey reads the per-slot index component out of a column key.
func indexFromKey(key []byte) uint64 {
	if len(key) < 17 {
		return 0
	}
	return binary.BigEndian.Uint64(key[9:17])
}

// columnBounds returns iterator bounds covering a whole column.
func columnBounds(prefix byte) (start, end []byte) {
	return []byte{prefix}, []byte{prefix + 1}
}

// slotBounds returns iterator bounds covering slots [from, to] of a column.
func slotBounds(prefix byte, from, to uint64) (start, end []byte) {
	start = slotKey(prefix, from)
	if to == math.MaxUint64 {
		return start, []byte{prefix + 1}
	}
	return start, slotKey(prefix, to+1)
}

// txStatusIndexKey keys one of the two rotating transaction status ranges.
func txStatusIndexKey(index uint64) []byte {
	return slotKey(prefixTxStatusIndex, index)
}

// addressSignatureKey keys a signature sighting of an address within a slot.
func addressSignatureKey(address [32]byte, slot uint64, signature shred.Signature) []byte {
	key := make([]byte, 1+32+8+shred.SignatureLen)
	key[0] = prefixAddressSignature
	copy(key[1:33], address[:])
	binary.BigEndian.PutUint64(key[33:41], slot)
	copy(key[41:], signature[:])
	return key
}

// programCostKey keys the accumulated cost record of one program.
func programCostKey(programID [32]byte) []byte {
	key := make([]byte, 33)
	key[0] = prefixProgramCost
	copy(key[1:], programID[:])
	return key
}
