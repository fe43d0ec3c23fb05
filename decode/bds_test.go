package decode

import (
	"testing"

	"github.com/kohldev/asterix-engine/bitfield"
	"github.com/kohldev/asterix-engine/catalog"
)

func bdsCatalogue() *catalog.Catalogue {
	table := catalog.NewRegisterTable(map[byte]*catalog.RegisterSchema{
		0x40: {
			Code: 0x40,
			Name: "Selected vertical intention",
			Bits: []catalog.BitsDescriptor{
				{Descriptor: bitfield.Descriptor{FromBit: 49, ToBit: 56, Encoding: bitfield.Unsigned, Name: "status"}},
			},
		},
	})
	return catalog.New(nil).WithBDS(table)
}

func TestDecodeBDS_KnownRegister(t *testing.T) {
	cat := bdsCatalogue()
	f := catalog.ItemFormat{Tag: catalog.BDS}

	// count byte, then one 8-byte register: code 0x40 and 7 payload bytes
	// whose first byte holds bits 56..49 ("status").
	data := []byte{1, 0x40, 0xAB, 0, 0, 0, 0, 0, 0}

	n, v, err := decodeBDS(data, 0, f, cat, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 9 {
		t.Fatalf("expected 9 bytes consumed, got %d", n)
	}
	if len(v.Children) != 1 {
		t.Fatalf("expected 1 register block, got %d", len(v.Children))
	}
	reg := v.Children[0]
	if !reg.BDSKnown || reg.BDSCode != 0x40 {
		t.Fatalf("expected register 0x40 to be known, got %+v", reg)
	}
	got, ok := reg.Field("status")
	if !ok || got.Uint != 0xAB {
		t.Errorf("expected status=0xAB, got %#x (ok=%v)", got.Uint, ok)
	}
}

func TestDecodeBDS_UnknownRegisterIsOpaque(t *testing.T) {
	cat := bdsCatalogue()
	f := catalog.ItemFormat{Tag: catalog.BDS}

	data := []byte{1, 0x99, 1, 2, 3, 4, 5, 6, 7}

	_, v, err := decodeBDS(data, 0, f, cat, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg := v.Children[0]
	if reg.BDSKnown {
		t.Fatal("expected unknown register code to be rendered opaque")
	}
	if len(reg.Fields) != 0 {
		t.Errorf("expected no fields for an unknown register, got %d", len(reg.Fields))
	}
}

func TestDecodeBDS_NoTableAttachedIsOpaque(t *testing.T) {
	f := catalog.ItemFormat{Tag: catalog.BDS}
	data := []byte{1, 0x40, 0, 0, 0, 0, 0, 0, 0}

	_, v, err := decodeBDS(data, 0, f, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Children[0].BDSKnown {
		t.Fatal("expected no-table decode to be opaque")
	}
}

func TestDecodeBDS_CountExceedsInput(t *testing.T) {
	f := catalog.ItemFormat{Tag: catalog.BDS}
	data := []byte{255, 0, 0}

	_, _, err := decodeBDS(data, 0, f, nil, nil)
	if err == nil {
		t.Fatal("expected an error: declared 255 registers but only 2 bytes follow")
	}
}
