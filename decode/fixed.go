package decode

import (
	"github.com/kohldev/asterix-engine/bitfield"
	"github.com/kohldev/asterix-engine/catalog"
)

// decodeFixed consumes exactly f.Len bytes and extracts every declared
// bit field against that slice (spec §4.3 "Fixed(n)").
func decodeFixed(data []byte, offset int, f catalog.ItemFormat, chain []string) (int, ItemValue, error) {
	n := f.Len
	if n < 1 {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnderflow)
	}
	if len(data) < n {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnderflow)
	}
	span := data[:n]

	fields := make([]FieldValue, 0, len(f.Bits))
	for _, bd := range f.Bits {
		v, err := bitfield.Extract(span, bd.Descriptor)
		if err != nil {
			return 0, ItemValue{}, newErr(KindBit, offset, chain, err)
		}
		name := bd.Name
		if name == "" {
			name = bd.ShortName
		}
		fields = append(fields, FieldValue{Name: name, Value: v})
	}

	return n, ItemValue{Format: f, Raw: span, Fields: fields}, nil
}
