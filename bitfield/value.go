// Package bitfield extracts typed scalars out of big-endian bit ranges.
//
// ASTERIX numbers bits 1-indexed with bit 1 being the least-significant bit
// of the last byte of the enclosing field — the reverse of the convention
// most binary protocols use. Every function in this package respects that
// numbering exactly; do not "fix" it to look more natural.
package bitfield

import "fmt"

// Encoding selects how a bit range is interpreted once extracted.
type Encoding int

const (
	Unsigned Encoding = iota
	Signed
	Scaled
	ICAO6
	Octal
	HexBit
	ASCII
)

func (e Encoding) String() string {
	switch e {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case Scaled:
		return "scaled"
	case ICAO6:
		return "icao6"
	case Octal:
		return "octal"
	case HexBit:
		return "hexbit"
	case ASCII:
		return "ascii"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// Descriptor describes a single bit-field within an enclosing byte slice.
// FromBit/ToBit are 1-indexed and inclusive, bit 1 being the LSB of the
// last byte of the slice passed to Extract.
type Descriptor struct {
	FromBit int
	ToBit   int

	Encoding Encoding
	Signed   bool // only consulted when Encoding == Scaled

	Scale float64
	Unit  string

	Name      string
	ShortName string

	// Values maps a raw integer reading to an enumerated meaning. Only
	// consulted for Unsigned/Signed/Scaled/Octal/HexBit encodings.
	Values map[int64]string
}

// Width returns the number of bits the descriptor covers.
func (d Descriptor) Width() int {
	return d.ToBit - d.FromBit + 1
}

// Kind tags the concrete type carried by a Value.
type Kind int

const (
	KindUnsigned Kind = iota
	KindSigned
	KindReal
	KindString
)

// Value is the decoded result of a single bit-field extraction.
type Value struct {
	Kind Kind

	Uint uint64
	Int  int64
	Real float64
	Str  string

	// Meaning is the enumerated text looked up via Descriptor.Values, if any.
	Meaning string
}

func (v Value) String() string {
	switch v.Kind {
	case KindUnsigned:
		return fmt.Sprintf("%d", v.Uint)
	case KindSigned:
		return fmt.Sprintf("%d", v.Int)
	case KindReal:
		return fmt.Sprintf("%g", v.Real)
	case KindString:
		return v.Str
	default:
		return ""
	}
}
