package decode

import (
	"testing"

	"github.com/kohldev/asterix-engine/bitfield"
	"github.com/kohldev/asterix-engine/catalog"
)

func fxOctetFormat(name string) catalog.ItemFormat {
	return catalog.ItemFormat{
		Tag: catalog.Fixed,
		Len: 1,
		Bits: []catalog.BitsDescriptor{
			{Descriptor: bitfield.Descriptor{FromBit: 2, ToBit: 8, Encoding: bitfield.Unsigned, Name: name}},
		},
	}
}

func TestDecodeVariable_SingleOctetNoExtension(t *testing.T) {
	f := catalog.ItemFormat{Tag: catalog.Variable, SubItems: []catalog.ItemFormat{fxOctetFormat("A")}}
	data := []byte{0x02} // FX bit (bit 1) clear

	n, v, err := decodeVariable(data, 0, f, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || len(v.Children) != 1 {
		t.Fatalf("expected 1 byte / 1 child, got n=%d children=%d", n, len(v.Children))
	}
}

func TestDecodeVariable_FollowsExtensionBit(t *testing.T) {
	f := catalog.ItemFormat{Tag: catalog.Variable, SubItems: []catalog.ItemFormat{fxOctetFormat("A"), fxOctetFormat("B")}}
	data := []byte{0x03, 0x00} // first octet FX set, second clear

	n, v, err := decodeVariable(data, 0, f, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(v.Children) != 2 {
		t.Fatalf("expected 2 bytes / 2 children, got n=%d children=%d", n, len(v.Children))
	}
}

func TestDecodeVariable_CapsRunawayExtensionChain(t *testing.T) {
	f := catalog.ItemFormat{Tag: catalog.Variable, SubItems: []catalog.ItemFormat{fxOctetFormat("A")}}
	data := make([]byte, MaxVariableExtensions+2)
	for i := range data {
		data[i] = 0x03 // FX always set: never terminates on its own
	}

	_, _, err := decodeVariable(data, 0, f, nil, nil)
	if err == nil {
		t.Fatal("expected FSPECError from runaway extension chain")
	}
}
