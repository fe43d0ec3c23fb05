package bitfield

import (
	"fmt"
	"math/big"
	"strings"
)

// BitError reports an out-of-range or malformed bit descriptor. It never
// indicates a bug in this package — it always reflects adversary-controlled
// input (a catalogue with a bad range, or a slice shorter than declared).
type BitError struct {
	FromBit, ToBit int
	AvailableBits  int
	Reason         string
}

func (e *BitError) Error() string {
	return fmt.Sprintf("bitfield: bits [%d,%d] invalid (%d bits available): %s",
		e.FromBit, e.ToBit, e.AvailableBits, e.Reason)
}

func rangeErr(data []byte, d Descriptor, reason string) error {
	return &BitError{FromBit: d.FromBit, ToBit: d.ToBit, AvailableBits: len(data) * 8, Reason: reason}
}

// Extract pulls the bit range described by d out of data and interprets it
// per d.Encoding. data must be exactly as long as the enclosing Fixed item;
// bit 1 is the least-significant bit of data's last byte.
//
// This is the hot path of the decoding engine: Unsigned/Signed/Scaled
// extraction performs no allocation.
func Extract(data []byte, d Descriptor) (Value, error) {
	totalBits := len(data) * 8
	if d.FromBit < 1 || d.ToBit < d.FromBit || d.ToBit > totalBits {
		return Value{}, rangeErr(data, d, "from_bit/to_bit outside enclosing field")
	}
	width := d.Width()

	switch d.Encoding {
	case Unsigned, Signed, Scaled:
		if width > 64 {
			return Value{}, rangeErr(data, d, "numeric encoding cannot exceed 64 bits")
		}
		return extractNumeric(data, d, width)
	case ICAO6:
		return extractICAO6(data, d)
	case ASCII:
		return extractASCII(data, d)
	case Octal:
		return extractRadix(data, d, 8, 3)
	case HexBit:
		return extractRadix(data, d, 16, 4)
	default:
		return Value{}, fmt.Errorf("bitfield: unknown encoding %v", d.Encoding)
	}
}

// extractRawUint reads width bits (width<=64) starting at from_bit..to_bit
// (1-indexed, bit 1 = LSB of the last byte) as an unsigned integer. No
// allocation.
func extractRawUint(data []byte, fromBit, toBit int) uint64 {
	var result uint64
	for k := toBit; k >= fromBit; k-- {
		fromEnd := k - 1
		byteFromEnd := fromEnd / 8
		bitInByte := uint(fromEnd % 8)
		byteIdx := len(data) - 1 - byteFromEnd
		bit := (data[byteIdx] >> bitInByte) & 1
		result = (result << 1) | uint64(bit)
	}
	return result
}

func signExtend(raw uint64, width int) int64 {
	shift := uint(64 - width)
	return int64(raw<<shift) >> shift
}

func extractNumeric(data []byte, d Descriptor, width int) (Value, error) {
	raw := extractRawUint(data, d.FromBit, d.ToBit)

	switch d.Encoding {
	case Unsigned:
		v := Value{Kind: KindUnsigned, Uint: raw}
		attachMeaning(&v, d, int64(raw))
		return v, nil
	case Signed:
		s := signExtend(raw, width)
		v := Value{Kind: KindSigned, Int: s}
		attachMeaning(&v, d, s)
		return v, nil
	case Scaled:
		var base int64
		if d.Signed {
			base = signExtend(raw, width)
		} else {
			base = int64(raw)
		}
		v := Value{Kind: KindReal, Real: float64(base) * d.Scale}
		attachMeaning(&v, d, base)
		return v, nil
	default:
		return Value{}, fmt.Errorf("bitfield: extractNumeric called with non-numeric encoding %v", d.Encoding)
	}
}

func attachMeaning(v *Value, d Descriptor, raw int64) {
	if d.Values == nil {
		return
	}
	if meaning, ok := d.Values[raw]; ok {
		v.Meaning = meaning
	}
}

// extractICAO6 groups the bit range into 6-bit codepoints, most significant
// group first, and maps each through the ICAO six-bit alphabet.
func extractICAO6(data []byte, d Descriptor) (Value, error) {
	width := d.Width()
	if width%6 != 0 {
		return Value{}, rangeErr(data, d, "ICAO6 width must be a multiple of 6 bits")
	}
	n := width / 6
	chars := make([]byte, n)
	for i := 0; i < n; i++ {
		hi := d.ToBit - i*6
		lo := hi - 5
		raw := extractRawUint(data, lo, hi)
		chars[i] = icaoChar(uint8(raw))
	}
	return Value{Kind: KindString, Str: strings.TrimRight(string(chars), " ")}, nil
}

// extractASCII groups the bit range into 8-bit characters, most significant
// byte first, filtering non-printable characters to '?'.
func extractASCII(data []byte, d Descriptor) (Value, error) {
	width := d.Width()
	if width%8 != 0 {
		return Value{}, rangeErr(data, d, "ASCII width must be a multiple of 8 bits")
	}
	n := width / 8
	chars := make([]byte, n)
	for i := 0; i < n; i++ {
		hi := d.ToBit - i*8
		lo := hi - 7
		raw := byte(extractRawUint(data, lo, hi))
		if raw < 0x20 || raw > 0x7e {
			raw = '?'
		}
		chars[i] = raw
	}
	return Value{Kind: KindString, Str: string(chars)}, nil
}

// extractRadix renders the bit range as a fixed-width base-8 or base-16
// string. Widths up to 64 bits use the allocation-free numeric path;
// wider fields (string-only per spec) fall back to math/big.
func extractRadix(data []byte, d Descriptor, base int, bitsPerDigit int) (Value, error) {
	width := d.Width()
	digits := (width + bitsPerDigit - 1) / bitsPerDigit

	var s string
	var raw uint64
	if width <= 64 {
		raw = extractRawUint(data, d.FromBit, d.ToBit)
		s = formatUint(raw, base)
	} else {
		bi := extractBigInt(data, d.FromBit, d.ToBit)
		s = bi.Text(base)
	}
	if len(s) < digits {
		s = strings.Repeat("0", digits-len(s)) + s
	}
	v := Value{Kind: KindString, Str: s}
	if width <= 64 {
		attachMeaning(&v, d, int64(raw))
	}
	return v, nil
}

func formatUint(v uint64, base int) string {
	return big.NewInt(0).SetUint64(v).Text(base)
}

// extractBigInt builds the width-bit value (arbitrary width) as a big.Int,
// used only for the string-encoding wide-field fallback.
func extractBigInt(data []byte, fromBit, toBit int) *big.Int {
	result := new(big.Int)
	bit := new(big.Int)
	for k := toBit; k >= fromBit; k-- {
		fromEnd := k - 1
		byteFromEnd := fromEnd / 8
		bitInByte := uint(fromEnd % 8)
		byteIdx := len(data) - 1 - byteFromEnd
		result.Lsh(result, 1)
		if (data[byteIdx]>>bitInByte)&1 != 0 {
			bit.SetInt64(1)
			result.Or(result, bit)
		}
	}
	return result
}
