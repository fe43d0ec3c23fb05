package decode

import (
	"fmt"

	"github.com/kohldev/asterix-engine/bitfield"
	"github.com/kohldev/asterix-engine/catalog"
)

// registerSize is the fixed width of one BDS register block: 1 code byte
// plus 7 payload bytes (spec §3 "BDS").
const registerSize = 8

// decodeBDS reads a 1-byte repetition count, then count 8-byte register
// blocks (spec §4.3 "BDS"). Each block's first byte selects a register
// schema from the catalogue's shared RegisterTable; an unrecognised code
// is rendered as opaque hex rather than treated as an error (spec §9
// scenario S6).
func decodeBDS(data []byte, offset int, f catalog.ItemFormat, cat *catalog.Catalogue, chain []string) (int, ItemValue, error) {
	if len(data) < 1 {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnderflow)
	}
	rep := int(data[0])

	if rep > (MaxItemSize-1)/registerSize {
		return 0, ItemValue{}, newErr(KindRepetitionOverflow, offset, chain, ErrRepetitionOverflow)
	}
	total := 1 + rep*registerSize
	if total > len(data) {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrOverflow)
	}

	var table *catalog.RegisterTable
	if cat != nil {
		table = cat.BDS()
	}

	children := make([]ItemValue, 0, rep)
	consumed := 1
	for i := 0; i < rep; i++ {
		block := data[consumed : consumed+registerSize]
		code := block[0]
		reg, known := table.Lookup(code)

		var fields []FieldValue
		if known {
			for _, bd := range reg.Bits {
				v, err := bitfield.Extract(block[1:], bd.Descriptor)
				if err != nil {
					return 0, ItemValue{}, newErr(KindItem, offset+consumed, chain, fmt.Errorf("BDS register %#x: %w", code, err))
				}
				name := bd.Name
				if name == "" {
					name = bd.ShortName
				}
				fields = append(fields, FieldValue{Name: name, Value: v})
			}
		}

		children = append(children, ItemValue{
			Raw:      block,
			Fields:   fields,
			BDSCode:  code,
			BDSKnown: known,
		})
		consumed += registerSize
	}

	return consumed, ItemValue{Format: f, Raw: data[:consumed], Children: children}, nil
}
