package decode

import "github.com/kohldev/asterix-engine/catalog"

// Record is one parsed DataRecord (spec §3 "DataRecord"): the UAP it was
// decoded against, its FSPEC bytes, its items in UAP-declared order (not
// FSPEC-bit order, per spec §5 "Ordering guarantees"), and whether
// decoding completed without error.
type Record struct {
	UAP   *catalog.UAP
	FSPEC []byte
	Items []*DataItem
	Raw   []byte
	Ok    bool
	Err   error
}

// ParseRecord decodes one record starting at data[0]; offset is the
// absolute position of data[0] in the original input, used only to
// annotate errors. It returns the
// number of bytes consumed (valid even when err != nil and the record is
// only partially decoded) and the Record itself.
func ParseRecord(cat *catalog.Catalogue, category *catalog.Category, data []byte, offset int) (*Record, int, error) {
	fspec, fspecLen, err := readFSPEC(data)
	if err != nil {
		return nil, 0, newErr(KindFSPEC, offset, nil, err)
	}

	uap, _ := category.SelectUAP(data)
	if uap == nil {
		return nil, 0, newErr(KindItem, offset, nil, ErrUnknownDataItem)
	}

	requested := presentFRNs(fspec)

	rec := &Record{UAP: uap, FSPEC: data[:fspecLen]}
	cursor := fspecLen

	wanted := make(map[int]bool, len(requested))
	for _, frn := range requested {
		wanted[frn] = true
	}

	for _, ui := range uap.Items {
		if !wanted[ui.FRN] {
			continue
		}
		item, n, err := DecodeItem(cat, category, ui.ItemID, data[cursor:], offset+cursor, ui.LenOverride, nil)
		if item != nil {
			rec.Items = append(rec.Items, item)
		}
		if err != nil {
			rec.Ok = false
			rec.Err = err
			rec.Raw = data[:cursor]
			return rec, cursor, err
		}
		cursor += n
	}

	rec.Ok = true
	rec.Raw = data[:cursor]
	return rec, cursor, nil
}

// readFSPEC reads the FSPEC continuation chain: 7 FRN bits (MSB first)
// plus a bit-1 continuation flag, per octet, capped at MaxFSPECOctets
// (spec §4.4, universal invariant #6).
func readFSPEC(data []byte) ([]byte, int, error) {
	for n := 1; n <= MaxFSPECOctets+1; n++ {
		if n > len(data) {
			return nil, 0, ErrUnderflow
		}
		if n > MaxFSPECOctets {
			return nil, 0, ErrFSPECOverflow
		}
		if data[n-1]&0x01 == 0 {
			return data[:n], n, nil
		}
	}
	return nil, 0, ErrFSPECOverflow
}

// presentFRNs returns, in ascending order, the FRNs whose FSPEC bit is
// set. Octet o (0-based) contributes FRNs o*7+1 .. o*7+7 from bits 8..2
// (MSB first); bit 1 is the continuation flag and carries no FRN.
func presentFRNs(fspec []byte) []int {
	var frns []int
	for o, b := range fspec {
		for p := 0; p < 7; p++ {
			bit := uint(7 - p) // bit 8 .. bit 2
			if b&(1<<bit) != 0 {
				frns = append(frns, o*7+p+1)
			}
		}
	}
	return frns
}
