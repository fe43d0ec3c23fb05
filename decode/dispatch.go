package decode

import "github.com/kohldev/asterix-engine/catalog"

// decodeFormat dispatches to the decoder named by f.Tag. offset is the
// absolute byte offset of data[0] within the original input, used only to
// annotate errors. chain is the Data-Item-ID breadcrumb trail, appended to
// (never mutated) as formats nest.
func decodeFormat(data []byte, offset int, f catalog.ItemFormat, cat *catalog.Catalogue, chain []string) (int, ItemValue, error) {
	switch f.Tag {
	case catalog.Fixed:
		return decodeFixed(data, offset, f, chain)
	case catalog.Variable:
		return decodeVariable(data, offset, f, cat, chain)
	case catalog.Repetitive:
		return decodeRepetitive(data, offset, f, cat, chain)
	case catalog.Compound:
		return decodeCompound(data, offset, f, cat, chain)
	case catalog.Explicit:
		return decodeExplicit(data, offset, f, cat, chain)
	case catalog.BDS:
		return decodeBDS(data, offset, f, cat, chain)
	default:
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnknownFormatTag)
	}
}
