package decode

import "github.com/kohldev/asterix-engine/catalog"

// decodeExplicit reads a 1-byte total length L (including the length byte
// itself) and hands the remaining L-1 bytes to the declared sub-item chain
// (spec §4.3 "Explicit"). The sub-item chain is decoded against exactly
// that slice; any bytes it does not itself consume are retained as opaque
// trailing payload rather than treated as a new item.
func decodeExplicit(data []byte, offset int, f catalog.ItemFormat, cat *catalog.Catalogue, chain []string) (int, ItemValue, error) {
	if len(data) < 1 {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnderflow)
	}
	l := int(data[0])
	if l == 0 {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnderflow)
	}
	if l > len(data) {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrOverflow)
	}

	body := data[1:l]
	children := make([]ItemValue, 0, len(f.SubItems))
	pos := 0
	for _, sub := range f.SubItems {
		if pos >= len(body) {
			break
		}
		n, v, err := decodeFormat(body[pos:], offset+1+pos, sub, cat, chain)
		if err != nil {
			return 0, ItemValue{}, err
		}
		children = append(children, v)
		pos += n
	}

	return l, ItemValue{Format: f, Raw: data[:l], Children: children}, nil
}
