package decode

import (
	"sort"

	"github.com/kohldev/asterix-engine/catalog"
)

// decodeCompound decodes the primary (a Variable fieldspec) then, for each
// of its bits set in ascending presence order, decodes the corresponding
// secondary sub-item (spec §4.3 "Compound"). A presence ordinal that falls
// outside the declared secondaries is a catalogue/input mismatch, not a
// panic.
func decodeCompound(data []byte, offset int, f catalog.ItemFormat, cat *catalog.Catalogue, chain []string) (int, ItemValue, error) {
	if len(f.SubItems) == 0 || f.SubItems[0].Tag != catalog.Variable {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnderflow)
	}
	secondaries := f.SubItems[1:]

	primaryN, primary, err := decodeFormat(data, offset, f.SubItems[0], cat, chain)
	if err != nil {
		return 0, ItemValue{}, err
	}

	present := presenceOrdinals(primary)

	consumed := primaryN
	children := make([]ItemValue, 0, len(present)+1)
	children = append(children, primary)

	for _, ord := range present {
		idx := ord - 1
		if idx < 0 || idx >= len(secondaries) {
			return 0, ItemValue{}, newErr(KindItem, offset+consumed, chain, ErrBadCompoundIndex)
		}
		n, v, err := decodeFormat(data[consumed:], offset+consumed, secondaries[idx], cat, chain)
		if err != nil {
			return 0, ItemValue{}, err
		}
		children = append(children, v)
		consumed += n
	}

	return consumed, ItemValue{Format: f, Raw: data[:consumed], Children: children}, nil
}

// presenceOrdinals walks the primary's decoded octets in the order their
// BitsDescriptors were declared and returns the presence ordinals whose
// bit came back set, in ascending order — spec §4.3's "iterating in
// ascending presence order, not bit order".
func presenceOrdinals(primary ItemValue) []int {
	var ords []int
	for _, octet := range primary.Children {
		for i, bd := range octet.Format.Bits {
			if bd.Presence == 0 {
				continue
			}
			if i >= len(octet.Fields) {
				continue
			}
			if octet.Fields[i].Value.Uint != 0 {
				ords = append(ords, bd.Presence)
			}
		}
	}
	sort.Ints(ords)
	return ords
}
