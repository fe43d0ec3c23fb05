// Package catalog loads and holds the runtime-configurable ASTERIX category
// schema: the Categories, their UAPs, and the ItemFormat trees that describe
// how each Data Item's bytes are laid out on the wire. The catalogue is
// built once (from XML, optionally layered with YAML overrides, or from the
// builtin defaults) and is read-only for the remainder of the process.
package catalog

import "github.com/kohldev/asterix-engine/bitfield"

// FormatTag selects which of the six wire layouts an ItemFormat describes.
type FormatTag int

const (
	Fixed FormatTag = iota
	Variable
	Repetitive
	Compound
	Explicit
	BDS
)

func (t FormatTag) String() string {
	switch t {
	case Fixed:
		return "Fixed"
	case Variable:
		return "Variable"
	case Repetitive:
		return "Repetitive"
	case Compound:
		return "Compound"
	case Explicit:
		return "Explicit"
	case BDS:
		return "BDS"
	default:
		return "Unknown"
	}
}

// ItemFormat is the tagged variant described in spec §3: every variant
// carries an optional name, zero-indexed id, and sub-items whose meaning
// depends on Tag (see the table in spec.md §3).
type ItemFormat struct {
	Tag  FormatTag
	Name string
	ID   int

	// Len is the byte length of a Fixed item; ignored otherwise.
	Len int

	// Bits holds the bit-field descriptors of a Fixed item; ignored
	// otherwise.
	Bits []BitsDescriptor

	// SubItems holds:
	//   Variable:   the Fixed-item chain, in extension order.
	//   Repetitive: exactly one Fixed item (the repeated record shape).
	//   Compound:   SubItems[0] is the Variable primary; SubItems[1:] are
	//               secondaries addressed by ascending presence ordinal.
	//   Explicit:   the sub-item chain decoded from the length-prefixed body.
	//   BDS:        unused; register schemas are held in the shared
	//               RegisterTable instead.
	SubItems []ItemFormat
}

// BitsDescriptor is catalog.BitsDescriptor layered on top of
// bitfield.Descriptor: it adds the presence ordinal used by Compound items
// and the display name fields from spec §3.
type BitsDescriptor struct {
	bitfield.Descriptor

	// Presence is non-zero for a bit that is a Compound primary's presence
	// flag; its value is the 1-indexed ordinal into the Compound's
	// secondary sub-items.
	Presence int
}
