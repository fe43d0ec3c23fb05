package decode

import "github.com/kohldev/asterix-engine/catalog"

// decodeVariable consumes SubItems[0] (a Fixed octet), then follows the FX
// (field-extension) bit — the least-significant bit of the last byte just
// consumed — to decide whether to consume another octet (spec §4.3
// "Variable"). When the chain runs past the declared sub-item list it
// loops back to SubItems[0], matching the source's observed continuation
// policy (SPEC_FULL.md OPEN QUESTIONS). A hard cap of MaxVariableExtensions
// guards against a chain that never terminates.
func decodeVariable(data []byte, offset int, f catalog.ItemFormat, cat *catalog.Catalogue, chain []string) (int, ItemValue, error) {
	if len(f.SubItems) == 0 {
		return 0, ItemValue{}, newErr(KindItem, offset, chain, ErrUnderflow)
	}

	var consumed int
	var children []ItemValue

	for ext := 0; ; ext++ {
		if ext >= MaxVariableExtensions {
			return 0, ItemValue{}, newErr(KindFSPEC, offset+consumed, chain, ErrFSPECOverflow)
		}

		sub := f.SubItems[ext%len(f.SubItems)]
		n, v, err := decodeFormat(data[consumed:], offset+consumed, sub, cat, chain)
		if err != nil {
			return 0, ItemValue{}, err
		}
		if n == 0 || len(v.Raw) == 0 {
			return 0, ItemValue{}, newErr(KindItem, offset+consumed, chain, ErrUnderflow)
		}

		children = append(children, v)
		consumed += n

		fx := v.Raw[len(v.Raw)-1] & 0x01
		if fx == 0 {
			break
		}
	}

	return consumed, ItemValue{Format: f, Raw: data[:consumed], Children: children}, nil
}
