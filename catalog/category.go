package catalog

import "fmt"

// PresenceRule is a Data Item's (or UAPItem's) declared obligation.
type PresenceRule int

const (
	Mandatory PresenceRule = iota
	Optional
	Spare
)

// DataItemDescription is a single Data Item's catalogue entry: its wire
// format plus the descriptive metadata carried alongside it. Owned by
// Category.
type DataItemDescription struct {
	ID          string // e.g. "010", "040"
	Name        string
	Description string
	Rule        PresenceRule
	Format      ItemFormat
}

// SelectorKind distinguishes the two ways a UAP can declare itself the
// active one for a record (spec §3 "Category").
type SelectorKind int

const (
	SelectNone SelectorKind = iota
	SelectBit
	SelectByte
)

// UAPSelector picks a non-default UAP for records matching a bit or byte
// test against the record's leading bytes (FSPEC included).
type UAPSelector struct {
	Kind SelectorKind

	// SelectBit: Octet is 1-indexed into the record, Bit is 1-indexed
	// within that octet (bit 1 = LSB), the UAP matches when that bit is 1.
	Octet int
	Bit   int

	// SelectByte: the UAP matches when byte Octet (1-indexed) equals Value.
	Value byte
}

// Matches reports whether the selector accepts the given record prefix.
// data must contain at least Octet bytes; callers are expected to have
// checked this already and treat a short prefix as "does not match".
func (s *UAPSelector) Matches(data []byte) bool {
	if s == nil || s.Kind == SelectNone {
		return false
	}
	if s.Octet < 1 || s.Octet > len(data) {
		return false
	}
	b := data[s.Octet-1]
	switch s.Kind {
	case SelectBit:
		if s.Bit < 1 || s.Bit > 8 {
			return false
		}
		return b&(1<<uint(s.Bit-1)) != 0
	case SelectByte:
		return b == s.Value
	default:
		return false
	}
}

// UAPItem is one row of a User Application Profile: the FRN it occupies,
// the FSPEC bit position it is announced at, the Data Item it refers to,
// an optional length override, and its presence rule.
type UAPItem struct {
	FRN         int
	Bit         int
	ItemID      string
	LenOverride int
	Rule        PresenceRule
}

// UAP is an ordered User Application Profile: FRN -> Data Item ID.
type UAP struct {
	Name     string // "" for the unnamed/default UAP
	Items    []UAPItem
	Selector *UAPSelector // nil => this is the default/fallback UAP

	byFRN map[int]UAPItem
}

func newUAP(name string, items []UAPItem, selector *UAPSelector) (*UAP, error) {
	if len(items) < 7 {
		return nil, fmt.Errorf("catalog: UAP %q has %d items, need at least 7", name, len(items))
	}
	byFRN := make(map[int]UAPItem, len(items))
	for _, it := range items {
		if _, dup := byFRN[it.FRN]; dup {
			return nil, fmt.Errorf("catalog: UAP %q declares FRN %d twice", name, it.FRN)
		}
		byFRN[it.FRN] = it
	}
	return &UAP{Name: name, Items: items, Selector: selector, byFRN: byFRN}, nil
}

// ItemAt returns the UAPItem at the given FRN, if declared.
func (u *UAP) ItemAt(frn int) (UAPItem, bool) {
	it, ok := u.byFRN[frn]
	return it, ok
}

// Category is the process-wide, read-only schema for one ASTERIX category
// number (spec §3 "Category"). Owns its DataItemDescriptions and UAPs.
type Category struct {
	ID    uint8
	Name  string
	Items map[string]*DataItemDescription
	UAPs  []*UAP
}

// Item looks up a Data Item by its 3-character ID (no "I048/" prefix).
func (c *Category) Item(id string) (*DataItemDescription, bool) {
	d, ok := c.Items[id]
	return d, ok
}

// SelectUAP implements the §4.4 UAP-selection rule: the first UAP whose
// selector matches the record prefix wins; failing that, the UAP declared
// without a selector (the default); failing that, per spec.md §9's
// "Open question — UAP selection", the first UAP in declaration order,
// which callers should treat as a fallback worth a warning.
func (c *Category) SelectUAP(recordPrefix []byte) (uap *UAP, usedFallback bool) {
	var def *UAP
	for _, u := range c.UAPs {
		if u.Selector == nil {
			if def == nil {
				def = u
			}
			continue
		}
		if u.Selector.Matches(recordPrefix) {
			return u, false
		}
	}
	if def != nil {
		return def, false
	}
	if len(c.UAPs) > 0 {
		return c.UAPs[0], true
	}
	return nil, false
}
