package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kohldev/asterix-engine/bitfield"
)

// LoadError reports a catalogue-loading failure (spec §4.1, §7
// "CatalogueError"). Loader failures are always fatal for the catalogue as
// a whole: no partial catalogue is ever returned.
type LoadError struct {
	File   string
	Detail string
	Cause  error
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("catalog: loading %s: %s", e.File, e.Detail)
	}
	return fmt.Sprintf("catalog: %s", e.Detail)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// LoadXML parses one category XML document (spec §6 grammar) and returns
// its Category. It never returns a partially built Category: any failure
// discards all intermediate state.
func LoadXML(path string) (*Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{File: path, Detail: "opening file", Cause: err}
	}
	defer f.Close()

	cat, err := decodeCategoryXML(f)
	if err != nil {
		return nil, &LoadError{File: path, Detail: err.Error(), Cause: err}
	}
	return cat, nil
}

// Load reads a set of category XML documents into one immutable Catalogue.
// A duplicate category id across files, or any single-file failure, fails
// the whole load: no partial catalogue is ever returned.
func Load(paths []string) (*Catalogue, error) {
	cats := make(map[uint8]*Category, len(paths))
	for _, p := range paths {
		cat, err := LoadXML(p)
		if err != nil {
			return nil, err
		}
		if _, dup := cats[cat.ID]; dup {
			return nil, &LoadError{File: p, Detail: fmt.Sprintf("duplicate category %d", cat.ID)}
		}
		cats[cat.ID] = cat
	}
	return New(cats), nil
}

// LoadWithBDS loads the category documents and the shared BDS register
// document (spec §4.1: "one per category version, plus a shared BDS
// register document") into a single Catalogue.
func LoadWithBDS(categoryPaths []string, bdsPath string) (*Catalogue, error) {
	cat, err := Load(categoryPaths)
	if err != nil {
		return nil, err
	}
	if bdsPath == "" {
		return cat, nil
	}
	bds, err := LoadRegisterTableXML(bdsPath)
	if err != nil {
		return nil, err
	}
	return cat.WithBDS(bds), nil
}

// --- streaming element-stack reader -----------------------------------
//
// The loader is a streaming XML reader with an explicit element stack: for
// each recognised element it pushes an accumulator (elem) onto the stack;
// on the matching close tag the accumulator is validated and attached to
// its parent's accumulator. Unknown elements fail the load outright;
// unknown attributes are silently ignored.

// elem is one frame of the element stack. Exactly one of the typed fields
// below is populated, depending on tag.
type elem struct {
	tag  string
	text string

	category *categoryAccum
	dataItem *dataItemAccum
	format   *ItemFormat // DataItemFormat, Fixed, Variable, Repetitive, Compound, Explicit, BDS
	bits     *BitsDescriptor
	uap      *uapAccum
	uapItem  *UAPItem

	// valKey carries BitsValue's "val" attribute until the element closes
	// and its CharData (the meaning text) is known.
	valKey *int64
}

type categoryAccum struct {
	id    uint8
	name  string
	items []*DataItemDescription
	uaps  []*UAP
}

type dataItemAccum struct {
	id          string
	rule        PresenceRule
	name        string
	description string
	format      ItemFormat
	hasFormat   bool
}

type uapAccum struct {
	name     string
	selector *UAPSelector
	items    []UAPItem
}

func decodeCategoryXML(r io.Reader) (*Category, error) {
	dec := xml.NewDecoder(r)
	var stack []*elem
	var result *Category

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("XML not well-formed: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e, err := openElement(t)
			if err != nil {
				return nil, err
			}
			stack = append(stack, e)

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected closing tag </%s>", t.Name.Local)
			}
			top := stack[len(stack)-1]
			if top.tag != t.Name.Local {
				return nil, fmt.Errorf("mismatched closing tag: expected </%s>, got </%s>", top.tag, t.Name.Local)
			}
			stack = stack[:len(stack)-1]

			if err := closeElement(top); err != nil {
				return nil, err
			}

			if len(stack) == 0 {
				cat, err := finishCategory(top)
				if err != nil {
					return nil, err
				}
				result = cat
			} else if err := attachToParent(stack[len(stack)-1], top); err != nil {
				return nil, err
			}
		}
	}

	if result == nil {
		return nil, fmt.Errorf("no <Category> element found")
	}
	return result, nil
}

func attr(t xml.StartElement, name string) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func formatTagFor(tag string) (FormatTag, bool) {
	switch tag {
	case "Fixed":
		return Fixed, true
	case "Variable":
		return Variable, true
	case "Repetitive":
		return Repetitive, true
	case "Compound":
		return Compound, true
	case "Explicit":
		return Explicit, true
	case "BDS":
		return BDS, true
	default:
		return 0, false
	}
}

func openElement(t xml.StartElement) (*elem, error) {
	tag := t.Name.Local
	e := &elem{tag: tag}

	if ft, ok := formatTagFor(tag); ok {
		f := &ItemFormat{Tag: ft}
		if tag == "Fixed" {
			length, _ := attr(t, "length")
			n, err := strconv.Atoi(length)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("Fixed: length must be >= 1, got %q", length)
			}
			f.Len = n
		}
		e.format = f
		return e, nil
	}

	switch tag {
	case "Category":
		idStr, _ := attr(t, "id")
		id, err := strconv.Atoi(idStr)
		if err != nil || id < 0 || id > 255 {
			return nil, fmt.Errorf("Category: invalid id %q", idStr)
		}
		name, _ := attr(t, "name")
		e.category = &categoryAccum{id: uint8(id), name: name}

	case "DataItem":
		id, ok := attr(t, "id")
		if !ok || id == "" {
			return nil, fmt.Errorf("DataItem: missing required id attribute")
		}
		rule := Optional
		if r, ok := attr(t, "rule"); ok && r == "mandatory" {
			rule = Mandatory
		}
		e.dataItem = &dataItemAccum{id: id, rule: rule}

	case "DataItemName", "DataItemDefinition", "BitsName", "BitsShortName", "BitsConst":
		// text-only leaf elements; captured via CharData at close.

	case "DataItemFormat":
		e.format = &ItemFormat{} // pass-through: its single child format is promoted verbatim.

	case "Bits":
		d, err := newBitsDescriptor(t)
		if err != nil {
			return nil, err
		}
		e.bits = d

	case "BitsUnit":
		if s, ok := attr(t, "scale"); ok {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("BitsUnit: invalid scale %q", s)
			}
			e.bits = &BitsDescriptor{}
			e.bits.Scale = f
		}

	case "BitsValue":
		v, ok := attr(t, "val")
		if !ok {
			return nil, fmt.Errorf("BitsValue: missing val attribute")
		}
		key, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("BitsValue: invalid val %q", v)
		}
		e.valKey = &key

	case "UAP":
		u := &uapAccum{}
		if name, ok := attr(t, "name"); ok {
			u.name = name
		}
		if bit, ok := attr(t, "selectorBit"); ok {
			octet, _ := attr(t, "selectorOctet")
			o, errO := strconv.Atoi(octet)
			b, errB := strconv.Atoi(bit)
			if errO != nil || errB != nil {
				return nil, fmt.Errorf("UAP: invalid selectorOctet/selectorBit")
			}
			u.selector = &UAPSelector{Kind: SelectBit, Octet: o, Bit: b}
		} else if val, ok := attr(t, "selectorValue"); ok {
			octet, _ := attr(t, "selectorOctet")
			o, errO := strconv.Atoi(octet)
			v, errV := strconv.Atoi(val)
			if errO != nil || errV != nil {
				return nil, fmt.Errorf("UAP: invalid selectorOctet/selectorValue")
			}
			u.selector = &UAPSelector{Kind: SelectByte, Octet: o, Value: byte(v)}
		}
		e.uap = u

	case "UAPItem":
		bit, _ := attr(t, "bit")
		frn, _ := attr(t, "frn")
		bitN, err1 := strconv.Atoi(bit)
		frnN, err2 := strconv.Atoi(frn)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("UAPItem: invalid bit/frn (%q/%q)", bit, frn)
		}
		item := &UAPItem{FRN: frnN, Bit: bitN}
		if l, ok := attr(t, "len"); ok {
			n, err := strconv.Atoi(l)
			if err != nil {
				return nil, fmt.Errorf("UAPItem: invalid len %q", l)
			}
			item.LenOverride = n
		}
		if p, ok := attr(t, "presence"); ok && p == "spare" {
			item.Rule = Spare
		}
		e.uapItem = item

	default:
		return nil, fmt.Errorf("unknown element <%s>", tag)
	}

	return e, nil
}

func newBitsDescriptor(t xml.StartElement) (*BitsDescriptor, error) {
	fromStr, ok1 := attr(t, "from")
	toStr, ok2 := attr(t, "to")
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("Bits: missing from/to attribute")
	}
	from, err1 := strconv.Atoi(fromStr)
	to, err2 := strconv.Atoi(toStr)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("Bits: invalid from/to (%q/%q)", fromStr, toStr)
	}
	d := &BitsDescriptor{}
	// The XML grammar (and the real ASTERIX convention) writes the high
	// bit first: from="16" to="9". FromBit/ToBit are stored low-to-high.
	if from < to {
		d.FromBit, d.ToBit = from, to
	} else {
		d.FromBit, d.ToBit = to, from
	}
	d.Encoding = parseEncoding(t)
	if d.Encoding == bitfield.Scaled {
		if s, ok := attr(t, "signed"); ok && s == "true" {
			d.Signed = true
		}
	}
	if p, ok := attr(t, "presence"); ok {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("Bits: invalid presence %q", p)
		}
		d.Presence = n
	}
	return d, nil
}

func parseEncoding(t xml.StartElement) bitfield.Encoding {
	enc, _ := attr(t, "encode")
	switch enc {
	case "signed":
		return bitfield.Signed
	case "scaled":
		return bitfield.Scaled
	case "icao6":
		return bitfield.ICAO6
	case "octal":
		return bitfield.Octal
	case "hex":
		return bitfield.HexBit
	case "ascii":
		return bitfield.ASCII
	default:
		return bitfield.Unsigned
	}
}

// closeElement validates the structural invariants spec §4.1 requires at
// close-tag time, before the element is ever attached to its parent.
func closeElement(e *elem) error {
	switch e.tag {
	case "Bits":
		if e.bits.FromBit < 1 || e.bits.ToBit < e.bits.FromBit {
			return fmt.Errorf("Bits: invalid range from=%d to=%d", e.bits.FromBit, e.bits.ToBit)
		}
	case "Fixed":
		if e.format.Len < 1 {
			return fmt.Errorf("Fixed: length must be >= 1")
		}
	case "Repetitive":
		if len(e.format.SubItems) != 1 || e.format.SubItems[0].Tag != Fixed {
			return fmt.Errorf("Repetitive: must have exactly one Fixed child")
		}
	case "Compound":
		if len(e.format.SubItems) == 0 || e.format.SubItems[0].Tag != Variable {
			return fmt.Errorf("Compound: first child must be Variable")
		}
	}
	return nil
}

func attachToParent(parent, child *elem) error {
	switch child.tag {
	case "DataItemName":
		if parent.dataItem != nil {
			parent.dataItem.name = child.text
		}
	case "DataItemDefinition":
		if parent.dataItem != nil {
			parent.dataItem.description = child.text
		}
	case "DataItemFormat":
		if parent.dataItem != nil && child.format != nil {
			parent.dataItem.format = *child.format
			parent.dataItem.hasFormat = true
		}
	case "Fixed", "Variable", "Repetitive", "Compound", "Explicit", "BDS":
		switch {
		case parent.tag == "DataItemFormat":
			*parent.format = *child.format
		case parent.format != nil:
			parent.format.SubItems = append(parent.format.SubItems, *child.format)
		case parent.dataItem != nil:
			parent.dataItem.format = *child.format
			parent.dataItem.hasFormat = true
		}
	case "BitsName":
		if parent.bits != nil {
			parent.bits.Name = child.text
		}
	case "BitsShortName":
		if parent.bits != nil {
			parent.bits.ShortName = child.text
		}
	case "BitsConst":
		// BitsConst is carried as a single fixed meaning, recorded under
		// key 0 so the decode layer can surface it via Values[0].
		if parent.bits != nil {
			if parent.bits.Values == nil {
				parent.bits.Values = map[int64]string{}
			}
			parent.bits.Values[0] = child.text
		}
	case "BitsUnit":
		if parent.bits != nil {
			if child.bits != nil {
				parent.bits.Scale = child.bits.Scale
			}
			parent.bits.Unit = child.text
		}
	case "BitsValue":
		if parent.bits != nil && child.valKey != nil {
			if parent.bits.Values == nil {
				parent.bits.Values = map[int64]string{}
			}
			parent.bits.Values[*child.valKey] = child.text
		}
	case "Bits":
		if parent.format != nil && child.bits != nil {
			parent.format.Bits = append(parent.format.Bits, *child.bits)
		}
	case "DataItem":
		if parent.category != nil && child.dataItem != nil {
			if !child.dataItem.hasFormat {
				return fmt.Errorf("DataItem %s: missing DataItemFormat", child.dataItem.id)
			}
			parent.category.items = append(parent.category.items, &DataItemDescription{
				ID:          child.dataItem.id,
				Name:        child.dataItem.name,
				Description: child.dataItem.description,
				Rule:        child.dataItem.rule,
				Format:      child.dataItem.format,
			})
		}
	case "UAPItem":
		if parent.uap != nil && child.uapItem != nil {
			item := *child.uapItem
			item.ItemID = child.text
			parent.uap.items = append(parent.uap.items, item)
		}
	case "UAP":
		if parent.category != nil && child.uap != nil {
			u, err := newUAP(child.uap.name, child.uap.items, child.uap.selector)
			if err != nil {
				return err
			}
			parent.category.uaps = append(parent.category.uaps, u)
		}
	}
	return nil
}

func finishCategory(top *elem) (*Category, error) {
	if top.category == nil {
		return nil, fmt.Errorf("root element must be <Category>")
	}
	if len(top.category.uaps) == 0 {
		return nil, fmt.Errorf("Category %d: no UAP declared", top.category.id)
	}
	items := make(map[string]*DataItemDescription, len(top.category.items))
	for _, it := range top.category.items {
		items[it.ID] = it
	}
	return &Category{
		ID:    top.category.id,
		Name:  top.category.name,
		Items: items,
		UAPs:  top.category.uaps,
	}, nil
}
