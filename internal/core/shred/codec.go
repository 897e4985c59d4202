package shred

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire layout, little endian. The common header is followed by the variant
// header and the payload:
//
//	[0:64)   signature
//	[64]     variant byte (0xa5 data, 0x5a code)
//	[65:73)  slot
//	[73:77)  index
//	[77:79)  version
//	[79:83)  fec set index
//
// data:    [83:85) parent offset | [85] flags | [86:88) payload size | payload
// coding:  [83:85) num data | [85:87) num coding | [87:89) position  | payload
const (
	offSignature   = 0
	offVariant     = 64
	offSlot        = 65
	offIndex       = 73
	offVersion     = 77
	offFECSetIndex = 79

	commonHeaderLen = 83

	// DataPayloadOffset is where a data shred's payload begins.
	DataPayloadOffset = commonHeaderLen + 5
	// CodePayloadOffset is where a coding shred's parity bytes begin.
	CodePayloadOffset = commonHeaderLen + 6
)

var (
	// ErrTooSmall means the buffer cannot hold the headers it claims.
	ErrTooSmall = errors.New("shred: buffer too small")
	// ErrBadVariant means the variant byte is neither data nor code.
	ErrBadVariant = errors.New("shred: unknown variant")
	// ErrBadSize means a data shred's size field exceeds the buffer.
	ErrBadSize = errors.New("shred: payload size out of bounds")
)

// Encode serializes the shred into a fresh buffer.
func (s *Shred) Encode() []byte {
	var buf []byte
	if s.IsCode() {
		buf = make([]byte, CodePayloadOffset+len(s.Payload))
	} else {
		buf = make([]byte, DataPayloadOffset+len(s.Payload))
	}

	copy(buf[offSignature:offVariant], s.Signature[:])
	buf[offVariant] = byte(s.Variant)
	binary.LittleEndian.PutUint64(buf[offSlot:offIndex], s.Slot)
	binary.LittleEndian.PutUint32(buf[offIndex:offVersion], s.Index)
	binary.LittleEndian.PutUint16(buf[offVersion:offFECSetIndex], s.Version)
	binary.LittleEndian.PutUint32(buf[offFECSetIndex:commonHeaderLen], s.FECSetIndex)

	if s.IsCode() {
		binary.LittleEndian.PutUint16(buf[83:85], s.NumData)
		binary.LittleEndian.PutUint16(buf[85:87], s.NumCoding)
		binary.LittleEndian.PutUint16(buf[87:89], s.Position)
		copy(buf[CodePayloadOffset:], s.Payload)
	} else {
		binary.LittleEndian.PutUint16(buf[83:85], s.ParentOffset)
		buf[85] = s.Flags
		binary.LittleEndian.PutUint16(buf[86:88], uint16(len(s.Payload)))
		copy(buf[DataPayloadOffset:], s.Payload)
	}
	return buf
}

// Decode parses a shred from its wire form. The payload is copied out of the
// input buffer.
func Decode(b []byte) (*Shred, error) {
	if len(b) < commonHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(b))
	}

	s := &Shred{
		Variant:     Type(b[offVariant]),
		Slot:        binary.LittleEndian.Uint64(b[offSlot:offIndex]),
		Index:       binary.LittleEndian.Uint32(b[offIndex:offVersion]),
		Version:     binary.LittleEndian.Uint16(b[offVersion:offFECSetIndex]),
		FECSetIndex: binary.LittleEndian.Uint32(b[offFECSetIndex:commonHeaderLen]),
	}
	copy(s.Signature[:], b[offSignature:offVariant])

	switch s.Variant {
	case TypeData:
		if len(b) < DataPayloadOffset {
			return nil, fmt.Errorf("%w: %d bytes for data header", ErrTooSmall, len(b))
		}
		s.ParentOffset = binary.LittleEndian.Uint16(b[83:85])
		s.Flags = b[85]
		size := int(binary.LittleEndian.Uint16(b[86:88]))
		if DataPayloadOffset+size > len(b) {
			return nil, fmt.Errorf("%w: size %d in %d-byte shred", ErrBadSize, size, len(b))
		}
		s.Payload = make([]byte, size)
		copy(s.Payload, b[DataPayloadOffset:DataPayloadOffset+size])

	case TypeCode:
		if len(b) < CodePayloadOffset {
			return nil, fmt.Errorf("%w: %d bytes for coding header", ErrTooSmall, len(b))
		}
		s.NumData = binary.LittleEndian.Uint16(b[83:85])
		s.NumCoding = binary.LittleEndian.Uint16(b[85:87])
		s.Position = binary.LittleEndian.Uint16(b[87:89])
		s.Payload = make([]byte, len(b)-CodePayloadOffset)
		copy(s.Payload, b[CodePayloadOffset:])

	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadVariant, b[offVariant])
	}
	return s, nil
}
