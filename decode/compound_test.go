package decode

import (
	"testing"

	"github.com/kohldev/asterix-engine/bitfield"
	"github.com/kohldev/asterix-engine/catalog"
)

func compoundPrimaryFormat() catalog.ItemFormat {
	octet := catalog.ItemFormat{
		Tag: catalog.Fixed,
		Len: 1,
		Bits: []catalog.BitsDescriptor{
			{Descriptor: bitfield.Descriptor{FromBit: 8, ToBit: 8, Encoding: bitfield.Unsigned, Name: "P1"}, Presence: 1},
			{Descriptor: bitfield.Descriptor{FromBit: 7, ToBit: 7, Encoding: bitfield.Unsigned, Name: "P2"}, Presence: 2},
		},
	}
	return catalog.ItemFormat{Tag: catalog.Variable, SubItems: []catalog.ItemFormat{octet}}
}

func compoundFormat() catalog.ItemFormat {
	secondary := catalog.ItemFormat{
		Tag: catalog.Fixed,
		Len: 1,
		Bits: []catalog.BitsDescriptor{
			{Descriptor: bitfield.Descriptor{FromBit: 1, ToBit: 8, Encoding: bitfield.Unsigned, Name: "V"}},
		},
	}
	return catalog.ItemFormat{
		Tag:      catalog.Compound,
		SubItems: []catalog.ItemFormat{compoundPrimaryFormat(), secondary, secondary},
	}
}

func TestDecodeCompound_BothSecondariesPresent(t *testing.T) {
	f := compoundFormat()
	// primary octet 0xC0: bit8(P1)=1, bit7(P2)=1, FX(bit1)=0
	data := []byte{0xC0, 0x11, 0x22}

	n, v, err := decodeCompound(data, 0, f, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 bytes consumed, got %d", n)
	}
	// children[0] is the primary, children[1:] the secondaries in ascending
	// presence order.
	if len(v.Children) != 3 {
		t.Fatalf("expected primary + 2 secondaries, got %d children", len(v.Children))
	}
	got, _ := v.Children[1].Field("V")
	if got.Uint != 0x11 {
		t.Errorf("expected first secondary 0x11, got %#x", got.Uint)
	}
	got2, _ := v.Children[2].Field("V")
	if got2.Uint != 0x22 {
		t.Errorf("expected second secondary 0x22, got %#x", got2.Uint)
	}
}

func TestDecodeCompound_OnlyFirstSecondaryPresent(t *testing.T) {
	f := compoundFormat()
	// bit8(P1)=1, bit7(P2)=0, FX=0
	data := []byte{0x80, 0x11}

	n, v, err := decodeCompound(data, 0, f, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 bytes consumed, got %d", n)
	}
	if len(v.Children) != 2 {
		t.Fatalf("expected primary + 1 secondary, got %d children", len(v.Children))
	}
}

func TestDecodeCompound_PresenceOrdinalOutOfRange(t *testing.T) {
	// Only one secondary declared but the primary's presence ordinal is 2.
	secondary := catalog.ItemFormat{Tag: catalog.Fixed, Len: 1}
	f := catalog.ItemFormat{
		Tag:      catalog.Compound,
		SubItems: []catalog.ItemFormat{compoundPrimaryFormat(), secondary},
	}
	data := []byte{0xC0, 0x11, 0x22}

	_, _, err := decodeCompound(data, 0, f, nil, nil)
	if err == nil {
		t.Fatal("expected an error for an out-of-range presence ordinal")
	}
}
