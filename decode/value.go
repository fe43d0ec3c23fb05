package decode

import (
	"github.com/kohldev/asterix-engine/bitfield"
	"github.com/kohldev/asterix-engine/catalog"
)

// FieldValue is one named bit-field extracted from a Fixed item's byte
// span, per spec §3 "BitsDescriptor".
type FieldValue struct {
	Name  string
	Value bitfield.Value
}

// ItemValue is the decoded tree for one ItemFormat node: its raw bytes,
// any directly-extracted fields (Fixed), and any nested sub-items
// (Variable octets, Repetitive records, Compound secondaries, Explicit
// sub-chain, BDS registers).
type ItemValue struct {
	Format catalog.ItemFormat
	Raw    []byte
	Fields []FieldValue

	Children []ItemValue

	// BDS register metadata, populated only when Format.Tag == catalog.BDS
	// and this node represents one register block.
	BDSCode  byte
	BDSKnown bool
}

// Field looks up a decoded field by name.
func (v *ItemValue) Field(name string) (bitfield.Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return bitfield.Value{}, false
}

// DataItem is a Data Item decoded within one DataRecord (spec §3
// "DataItem"): the description it was decoded against, the raw bytes it
// consumed, and its decoded value tree. Ok is false when decoding failed
// partway through; Raw then holds the undecoded bytes from the item's
// start to the end of the input it was given, kept opaque.
type DataItem struct {
	Description *catalog.DataItemDescription
	Raw         []byte
	Value       ItemValue
	Ok          bool
	Err         error
}
