package decode

import "github.com/kohldev/asterix-engine/catalog"

// DecodeItem is the Data-Item Driver (spec §4.6): thin indirection that
// looks up id's DataItemDescription on category, applies a UAP-declared
// length override if non-zero, invokes the format decoder, and records the
// raw bytes consumed.
func DecodeItem(cat *catalog.Catalogue, category *catalog.Category, id string, data []byte, offset int, lenOverride int, chain []string) (*DataItem, int, error) {
	desc, ok := category.Item(id)
	if !ok {
		return nil, 0, newErr(KindItem, offset, chain, ErrUnknownDataItem)
	}

	itemChain := append(append([]string(nil), chain...), id)

	format := desc.Format
	if lenOverride > 0 && format.Tag == catalog.Fixed {
		format.Len = lenOverride
	}

	n, v, err := decodeFormat(data, offset, format, cat, itemChain)
	if err != nil {
		return &DataItem{Description: desc, Raw: data, Ok: false, Err: err}, 0, err
	}

	return &DataItem{Description: desc, Raw: v.Raw, Value: v, Ok: true}, n, nil
}
