package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kohldev/asterix-engine/bitfield"
)

// Overrides documents is the site-local convenience layer described in
// SPEC_FULL.md's DOMAIN STACK: whole categories expressed in YAML, meant
// for the operational edits (renaming a spare bit, disabling a deprecated
// item) that ATM shops need without touching vendor-supplied XML.
type overridesDoc struct {
	Categories []yamlCategory `yaml:"categories"`
}

type yamlCategory struct {
	ID    uint8      `yaml:"id"`
	Name  string     `yaml:"name"`
	Items []yamlItem `yaml:"items"`
	UAPs  []yamlUAP  `yaml:"uaps"`
}

type yamlItem struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Rule        string     `yaml:"rule,omitempty"`
	Format      yamlFormat `yaml:"format"`
}

type yamlFormat struct {
	Tag      string       `yaml:"tag"`
	Len      int          `yaml:"len,omitempty"`
	Bits     []yamlBits   `yaml:"bits,omitempty"`
	SubItems []yamlFormat `yaml:"subitems,omitempty"`
}

type yamlBits struct {
	From      int              `yaml:"from"`
	To        int              `yaml:"to"`
	Encode    string           `yaml:"encode,omitempty"`
	Signed    bool             `yaml:"signed,omitempty"`
	Scale     float64          `yaml:"scale,omitempty"`
	Unit      string           `yaml:"unit,omitempty"`
	Name      string           `yaml:"name,omitempty"`
	ShortName string           `yaml:"short_name,omitempty"`
	Presence  int              `yaml:"presence,omitempty"`
	Values    map[int64]string `yaml:"values,omitempty"`
}

type yamlUAP struct {
	Name     string        `yaml:"name,omitempty"`
	Selector *yamlSelector `yaml:"selector,omitempty"`
	Items    []yamlUAPItem `yaml:"items"`
}

type yamlSelector struct {
	Kind  string `yaml:"kind"`
	Octet int    `yaml:"octet"`
	Bit   int    `yaml:"bit,omitempty"`
	Value int    `yaml:"value,omitempty"`
}

type yamlUAPItem struct {
	FRN    int    `yaml:"frn"`
	Bit    int    `yaml:"bit"`
	ItemID string `yaml:"item_id"`
	Len    int    `yaml:"len,omitempty"`
	Rule   string `yaml:"rule,omitempty"`
}

// LoadOverridesYAML reads a category-overrides document. Each category
// listed entirely replaces the base category of the same id when merged
// via Catalogue.Merge.
func LoadOverridesYAML(path string) (map[uint8]*Category, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Detail: "reading file", Cause: err}
	}

	var doc overridesDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &LoadError{File: path, Detail: "parsing YAML", Cause: err}
	}

	cats := make(map[uint8]*Category, len(doc.Categories))
	for _, yc := range doc.Categories {
		cat, err := buildCategory(yc)
		if err != nil {
			return nil, &LoadError{File: path, Detail: fmt.Sprintf("category %d: %v", yc.ID, err), Cause: err}
		}
		cats[yc.ID] = cat
	}
	return cats, nil
}

func buildCategory(yc yamlCategory) (*Category, error) {
	items := make(map[string]*DataItemDescription, len(yc.Items))
	for _, yi := range yc.Items {
		f, err := buildFormat(yi.Format)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", yi.ID, err)
		}
		items[yi.ID] = &DataItemDescription{
			ID:          yi.ID,
			Name:        yi.Name,
			Description: yi.Description,
			Rule:        parseRule(yi.Rule),
			Format:      f,
		}
	}

	uaps := make([]*UAP, 0, len(yc.UAPs))
	for _, yu := range yc.UAPs {
		items := make([]UAPItem, 0, len(yu.Items))
		for _, yui := range yu.Items {
			items = append(items, UAPItem{
				FRN:         yui.FRN,
				Bit:         yui.Bit,
				ItemID:      yui.ItemID,
				LenOverride: yui.Len,
				Rule:        parseRule(yui.Rule),
			})
		}
		var sel *UAPSelector
		if yu.Selector != nil {
			sel = &UAPSelector{Octet: yu.Selector.Octet}
			switch yu.Selector.Kind {
			case "bit":
				sel.Kind = SelectBit
				sel.Bit = yu.Selector.Bit
			case "byte":
				sel.Kind = SelectByte
				sel.Value = byte(yu.Selector.Value)
			default:
				return nil, fmt.Errorf("uap %q: unknown selector kind %q", yu.Name, yu.Selector.Kind)
			}
		}
		u, err := newUAP(yu.Name, items, sel)
		if err != nil {
			return nil, err
		}
		uaps = append(uaps, u)
	}

	if len(uaps) == 0 {
		return nil, fmt.Errorf("category declares no UAPs")
	}

	return &Category{ID: yc.ID, Name: yc.Name, Items: items, UAPs: uaps}, nil
}

func parseRule(s string) PresenceRule {
	switch s {
	case "mandatory":
		return Mandatory
	case "spare":
		return Spare
	default:
		return Optional
	}
}

func buildFormat(yf yamlFormat) (ItemFormat, error) {
	tag, err := parseFormatTag(yf.Tag)
	if err != nil {
		return ItemFormat{}, err
	}
	f := ItemFormat{Tag: tag, Len: yf.Len}

	for _, yb := range yf.Bits {
		d := BitsDescriptor{}
		// Matches the XML grammar: "from"/"to" name the high/low bit in
		// either order; FromBit/ToBit are stored low-to-high.
		if yb.From < yb.To {
			d.FromBit, d.ToBit = yb.From, yb.To
		} else {
			d.FromBit, d.ToBit = yb.To, yb.From
		}
		if d.FromBit < 1 {
			return ItemFormat{}, fmt.Errorf("bits: invalid range from=%d to=%d", yb.From, yb.To)
		}
		d.Encoding = parseEncodingName(yb.Encode)
		d.Signed = yb.Signed
		d.Scale = yb.Scale
		d.Unit = yb.Unit
		d.Name = yb.Name
		d.ShortName = yb.ShortName
		d.Presence = yb.Presence
		d.Values = yb.Values
		f.Bits = append(f.Bits, d)
	}

	for _, ys := range yf.SubItems {
		sub, err := buildFormat(ys)
		if err != nil {
			return ItemFormat{}, err
		}
		f.SubItems = append(f.SubItems, sub)
	}

	if tag == Fixed && f.Len < 1 {
		return ItemFormat{}, fmt.Errorf("fixed: len must be >= 1")
	}
	if tag == Repetitive && (len(f.SubItems) != 1 || f.SubItems[0].Tag != Fixed) {
		return ItemFormat{}, fmt.Errorf("repetitive: must have exactly one fixed subitem")
	}
	if tag == Compound && (len(f.SubItems) == 0 || f.SubItems[0].Tag != Variable) {
		return ItemFormat{}, fmt.Errorf("compound: first subitem must be variable")
	}
	return f, nil
}

func parseFormatTag(s string) (FormatTag, error) {
	switch s {
	case "fixed":
		return Fixed, nil
	case "variable":
		return Variable, nil
	case "repetitive":
		return Repetitive, nil
	case "compound":
		return Compound, nil
	case "explicit":
		return Explicit, nil
	case "bds":
		return BDS, nil
	default:
		return 0, fmt.Errorf("unknown format tag %q", s)
	}
}

func parseEncodingName(s string) bitfield.Encoding {
	switch s {
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
