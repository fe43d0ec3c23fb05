package decode

import (
	"errors"
	"testing"

	"github.com/kohldev/asterix-engine/bitfield"
	"github.com/kohldev/asterix-engine/catalog"
)

func oneByteFixed(name string) catalog.ItemFormat {
	return catalog.ItemFormat{
		Tag: catalog.Fixed,
		Len: 1,
		Bits: []catalog.BitsDescriptor{
			{Descriptor: bitfield.Descriptor{FromBit: 1, ToBit: 8, Encoding: bitfield.Unsigned, Name: name}},
		},
	}
}

func TestDecodeRepetitive_Basic(t *testing.T) {
	f := catalog.ItemFormat{Tag: catalog.Repetitive, SubItems: []catalog.ItemFormat{oneByteFixed("V")}}
	data := []byte{3, 0x01, 0x02, 0x03, 0xFF}

	n, v, err := decodeRepetitive(data, 0, f, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 bytes consumed, got %d", n)
	}
	if len(v.Children) != 3 {
		t.Fatalf("expected 3 repetitions, got %d", len(v.Children))
	}
	got, _ := v.Children[1].Field("V")
	if got.Uint != 2 {
		t.Errorf("expected second repetition value 2, got %d", got.Uint)
	}
}

func TestDecodeRepetitive_CountExceedsInput(t *testing.T) {
	f := catalog.ItemFormat{Tag: catalog.Repetitive, SubItems: []catalog.ItemFormat{oneByteFixed("V")}}
	data := []byte{255}

	// A naive rep*fixedLen with a huge fixedLen could wrap; here fixedLen=1
	// so this exercises the bounds check against the actual buffer instead.
	_, _, err := decodeRepetitive(data, 0, f, nil, nil)
	if err == nil {
		t.Fatal("expected overflow error: declared 255 repetitions but only 1 byte present")
	}
}

func TestDecodeRepetitive_RequiresSingleFixedChild(t *testing.T) {
	f := catalog.ItemFormat{Tag: catalog.Repetitive, SubItems: []catalog.ItemFormat{
		{Tag: catalog.Variable},
	}}
	_, _, err := decodeRepetitive([]byte{1, 0x00}, 0, f, nil, nil)
	if err == nil {
		t.Fatal("expected error: Repetitive sub-item must be Fixed")
	}
}

func TestDecodeRepetitive_RepetitionOverflowKind(t *testing.T) {
	f := catalog.ItemFormat{Tag: catalog.Repetitive, SubItems: []catalog.ItemFormat{
		{Tag: catalog.Fixed, Len: 1000},
	}}
	data := make([]byte, 70000)
	data[0] = 255

	_, _, err := decodeRepetitive(data, 0, f, nil, nil)
	if err == nil {
		t.Fatal("expected RepetitionOverflow")
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != KindRepetitionOverflow {
		t.Errorf("expected KindRepetitionOverflow, got %+v", err)
	}
}
