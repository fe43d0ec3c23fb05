package decode

import "github.com/kohldev/asterix-engine/catalog"

// decodeRepetitive reads a 1-byte repetition count, then count copies of
// the single Fixed sub-item (spec §4.3 "Repetitive"). The overflow check
// runs before any multiplication that could wrap: this is one of the four
// historical CVE-class bugs named in spec.md §1.
func decodeRepetitive(data []byte, offset int, f catalog.ItemFormat, cat *catalog.Catalogue, chain []string) (int, ItemValue, error) {
	if len(f.SubItems) != 1 || f.SubItems[0].Tag != catalog.Fixed {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnderflow)
	}
	if len(data) < 1 {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnderflow)
	}

	rep := int(data[0])
	fixedLen := f.SubItems[0].Len

	if fixedLen > 0 && rep > (MaxItemSize-1)/fixedLen {
		return 0, ItemValue{}, newErr(KindRepetitionOverflow, offset, chain, ErrRepetitionOverflow)
	}

	total := 1 + rep*fixedLen
	if total > len(data) {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrOverflow)
	}

	children := make([]ItemValue, 0, rep)
	consumed := 1
	for i := 0; i < rep; i++ {
		n, v, err := decodeFormat(data[consumed:], offset+consumed, f.SubItems[0], cat, chain)
		if err != nil {
			return 0, ItemValue{}, err
		}
		children = append(children, v)
		consumed += n
	}

	return consumed, ItemValue{Format: f, Raw: data[:consumed], Children: children}, nil
}
