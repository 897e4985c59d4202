package shred_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/LeJamon/goShredstore/internal/core/shred"
)

func TestDataShredRoundTrip(t *testing.T) {
	payload := []byte("ledger entries for slot five")
	s := shred.NewDataShred(5, 3, 1, shred.FlagDataComplete|7, 2, 0, payload)
	for i := range s.Signature {
		s.Signature[i] = byte(i)
	}

	decoded, err := shred.Decode(s.Encode())
	if err != nil {
		t.Fatalf("failed to decode data shred: %v", err)
	}

	if decoded.Variant != shred.TypeData {
		t.Errorf("expected data variant, got %v", decoded.Variant)
	}
	if decoded.Slot != 5 || decoded.Index != 3 {
		t.Errorf("expected slot 5 index 3, got slot %d index %d", decoded.Slot, decoded.Index)
	}
	if decoded.ParentOffset != 1 {
		t.Errorf("expected parent offset 1, got %d", decoded.ParentOffset)
	}
	if decoded.Version != 2 {
		t.Errorf("expected version 2, got %d", decoded.Version)
	}
	if decoded.Signature != s.Signature {
		t.Error("signature did not survive the round trip")
	}
	if !bytes.Equal(decoded.Payload, payload) {
		t.Errorf("payload mismatch: got %q", decoded.Payload)
	}
}

func TestCodeShredRoundTrip(t *testing.T) {
	parity := bytes.Repeat([]byte{0xab}, 200)
	s := shred.NewCodeShred(9, 74, 2, 64, 32, 17, 10, parity)

	decoded, err := shred.Decode(s.Encode())
	if err != nil {
		t.Fatalf("failed to decode coding shred: %v", err)
	}

	if !decoded.IsCode() {
		t.Fatal("expected a coding shred")
	}
	if decoded.NumData != 32 || decoded.NumCoding != 17 || decoded.Position != 10 {
		t.Errorf("coding header mismatch: num_data=%d num_coding=%d position=%d",
			decoded.NumData, decoded.NumCoding, decoded.Position)
	}
	if decoded.FECSetIndex != 64 {
		t.Errorf("expected fec set index 64, got %d", decoded.FECSetIndex)
	}
	if !bytes.Equal(decoded.Payload, parity) {
		t.Error("parity payload mismatch")
	}
}

func TestShredFlags(t *testing.T) {
	t.Run("DataComplete", func(t *testing.T) {
		s := shred.NewDataShred(1, 0, 1, shred.FlagDataComplete, 0, 0, nil)
		if !s.DataComplete() {
			t.Error("data complete flag not detected")
		}
		if s.LastInSlot() {
			t.Error("data complete alone must not read as last in slot")
		}
	})

	t.Run("LastInSlotImpliesDataComplete", func(t *testing.T) {
		s := shred.NewDataShred(1, 0, 1, shred.FlagLastInSlot, 0, 0, nil)
		if !s.LastInSlot() {
			t.Error("last in slot flag not detected")
		}
		if !s.DataComplete() {
			t.Error("last in slot must imply data complete")
		}
	})

	t.Run("ReferenceTick", func(t *testing.T) {
		s := shred.NewDataShred(1, 0, 1, shred.FlagLastInSlot|13, 0, 0, nil)
		if got := s.ReferenceTick(); got != 13 {
			t.Errorf("expected reference tick 13, got %d", got)
		}
	})
}

func TestParentSlot(t *testing.T) {
	cases := []struct {
		name   string
		slot   uint64
		offset uint16
		parent uint64
		ok     bool
	}{
		{"Normal", 10, 3, 7, true},
		{"RootSlot", 0, 0, 0, true},
		{"ZeroOffsetNonRoot", 10, 0, 0, false},
		{"OffsetBeyondSlot", 2, 5, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := shred.NewDataShred(tc.slot, 0, tc.offset, 0, 0, 0, nil)
			parent, ok := s.ParentSlot()
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && parent != tc.parent {
				t.Errorf("expected parent %d, got %d", tc.parent, parent)
			}
		})
	}

	t.Run("CodingShred", func(t *testing.T) {
		s := shred.NewCodeShred(10, 0, 0, 0, 8, 4, 0, nil)
		if _, ok := s.ParentSlot(); ok {
			t.Error("coding shreds have no parent slot")
		}
	})
}

func TestFirstCodingIndex(t *testing.T) {
	t.Run("DerivedFromPosition", func(t *testing.T) {
		s := shred.NewCodeShred(1, 74, 0, 64, 8, 4, 10, nil)
		first, ok := s.FirstCodingIndex()
		if !ok {
			t.Fatal("expected a first coding index")
		}
		if first != 64 {
			t.Errorf("expected first coding index 64, got %d", first)
		}
	})

	t.Run("PositionBeyondIndex", func(t *testing.T) {
		s := shred.NewCodeShred(1, 4, 0, 0, 8, 4, 10, nil)
		if _, ok := s.FirstCodingIndex(); ok {
			t.Error("underflowing position must not produce an index")
		}
	})

	t.Run("DataShred", func(t *testing.T) {
		s := shred.NewDataShred(1, 4, 1, 0, 0, 0, nil)
		if _, ok := s.FirstCodingIndex(); ok {
			t.Error("data shreds have no first coding index")
		}
	})
}

func TestDecodeErrors(t *testing.T) {
	t.Run("TooSmall", func(t *testing.T) {
		if _, err := shred.Decode(make([]byte, 10)); !errors.Is(err, shred.ErrTooSmall) {
			t.Errorf("expected ErrTooSmall, got %v", err)
		}
	})

	t.Run("BadVariant", func(t *testing.T) {
		buf := shred.NewDataShred(1, 0, 1, 0, 0, 0, nil).Encode()
		buf[64] = 0xff
		if _, err := shred.Decode(buf); !errors.Is(err, shred.ErrBadVariant) {
			t.Errorf("expected ErrBadVariant, got %v", err)
		}
	})

	t.Run("BadSize", func(t *testing.T) {
		buf := shred.NewDataShred(1, 0, 1, 0, 0, 0, []byte("abc")).Encode()
		buf[86] = 0xff // claim a payload far past the buffer
		if _, err := shred.Decode(buf); !errors.Is(err, shred.ErrBadSize) {
			t.Errorf("expected ErrBadSize, got %v", err)
		}
	})
}
