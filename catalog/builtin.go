package catalog

import "github.com/kohldev/asterix-engine/bitfield"

// Builtin returns a Catalogue containing one category, CAT048 version
// 1.32, built programmatically instead of from an XML document. It lets
// the module decode live Mode-S radar traffic without requiring an
// external catalogue file, and matches the item set spec.md's end-to-end
// scenarios exercise: 010, 140, 020, 040, 070, 090, 130, 220, 240, 250,
// 161, 042, 200, 170.
func Builtin() *Catalogue {
	return New(map[uint8]*Category{
		48: builtinCat048(),
	})
}

func bits(from, to int, enc bitfield.Encoding) BitsDescriptor {
	d := BitsDescriptor{}
	d.FromBit, d.ToBit = from, to
	d.Encoding = enc
	return d
}

func scaledBits(from, to int, signed bool, scale float64) BitsDescriptor {
	d := bits(from, to, bitfield.Scaled)
	d.Signed = signed
	d.Scale = scale
	return d
}

func named(d BitsDescriptor, name string) BitsDescriptor {
	d.Name = name
	return d
}

// fxOctet builds one byte of an extension chain: the data bits occupy
// bits 8..2, bit 1 is the FX (extension) flag reserved by the Variable
// decoder itself, so it is not listed here.
func fxOctet(name string, dataBits ...BitsDescriptor) ItemFormat {
	return ItemFormat{Tag: Fixed, Name: name, Len: 1, Bits: dataBits}
}

func variableOf(octets ...ItemFormat) ItemFormat {
	return ItemFormat{Tag: Variable, SubItems: octets}
}

func dataSourceIdentifier() ItemFormat {
	return ItemFormat{
		Tag: Fixed, Name: "Data Source Identifier", Len: 2,
		Bits: []BitsDescriptor{
			named(bits(9, 16, bitfield.Unsigned), "SAC"),
			named(bits(1, 8, bitfield.Unsigned), "SIC"),
		},
	}
}

func timeOfDay() ItemFormat {
	// LSB = 1/128 s, 3 bytes = 24 bits.
	return ItemFormat{
		Tag: Fixed, Name: "Time of Day", Len: 3,
		Bits: []BitsDescriptor{scaledBits(1, 24, false, 1.0/128.0)},
	}
}

func targetReportDescriptor() ItemFormat {
	return variableOf(
		fxOctet("Primary",
			named(bits(6, 8, bitfield.Unsigned), "TYP"),
			named(bits(5, 5, bitfield.Unsigned), "SIM"),
			named(bits(4, 4, bitfield.Unsigned), "RDP"),
			named(bits(3, 3, bitfield.Unsigned), "SPI"),
			named(bits(2, 2, bitfield.Unsigned), "RAB"),
		),
		fxOctet("First Extension",
			named(bits(8, 8, bitfield.Unsigned), "TST"),
			named(bits(7, 7, bitfield.Unsigned), "ERR"),
			named(bits(6, 6, bitfield.Unsigned), "XPP"),
			named(bits(5, 5, bitfield.Unsigned), "ME"),
			named(bits(4, 4, bitfield.Unsigned), "MI"),
			named(bits(2, 3, bitfield.Unsigned), "FOE"),
		),
		fxOctet("Second Extension",
			named(bits(8, 8, bitfield.Unsigned), "ADSB_EP"),
			named(bits(7, 7, bitfield.Unsigned), "ADSB_VAL"),
			named(bits(6, 6, bitfield.Unsigned), "SCN_EP"),
			named(bits(5, 5, bitfield.Unsigned), "SCN_VAL"),
			named(bits(4, 4, bitfield.Unsigned), "PAI_EP"),
			named(bits(3, 3, bitfield.Unsigned), "PAI_VAL"),
		),
		fxOctet("Third Extension",
			named(bits(8, 8, bitfield.Unsigned), "ACASXV_EP"),
			named(bits(4, 7, bitfield.Unsigned), "ACASXV_VAL"),
			named(bits(3, 3, bitfield.Unsigned), "POXPR_EP"),
			named(bits(2, 2, bitfield.Unsigned), "POXPR_VAL"),
		),
		fxOctet("Fourth Extension",
			named(bits(8, 8, bitfield.Unsigned), "POACT_EP"),
			named(bits(7, 7, bitfield.Unsigned), "POACT_VAL"),
			named(bits(6, 6, bitfield.Unsigned), "DTFXPR_EP"),
			named(bits(5, 5, bitfield.Unsigned), "DTFXPR_VAL"),
			named(bits(4, 4, bitfield.Unsigned), "DTFACT_EP"),
			named(bits(3, 3, bitfield.Unsigned), "DTFACT_VAL"),
		),
		fxOctet("Fifth Extension",
			named(bits(8, 8, bitfield.Unsigned), "IRMXPR_EP"),
			named(bits(7, 7, bitfield.Unsigned), "IRMXPR_VAL"),
			named(bits(6, 6, bitfield.Unsigned), "IRMACT_EP"),
			named(bits(5, 5, bitfield.Unsigned), "IRMACT_VAL"),
		),
	)
}

func measuredPosition() ItemFormat {
	// Rho (16 bits, LSB 1/256 NM) + Theta (16 bits, LSB 360/2^16 deg).
	return ItemFormat{
		Tag: Fixed, Name: "Measured Position", Len: 4,
		Bits: []BitsDescriptor{
			named(scaledBits(17, 32, false, 1.0/256.0), "RHO"),
			named(scaledBits(1, 16, false, 360.0/65536.0), "THETA"),
		},
	}
}

func mode3ACode() ItemFormat {
	return ItemFormat{
		Tag: Fixed, Name: "Mode-3/A Code", Len: 2,
		Bits: []BitsDescriptor{
			named(bits(16, 16, bitfield.Unsigned), "V"),
			named(bits(15, 15, bitfield.Unsigned), "G"),
			named(bits(14, 14, bitfield.Unsigned), "L"),
			named(bits(1, 12, bitfield.Octal), "CODE"),
		},
	}
}

func flightLevel() ItemFormat {
	return ItemFormat{
		Tag: Fixed, Name: "Flight Level", Len: 2,
		Bits: []BitsDescriptor{scaledBits(1, 16, true, 0.25)},
	}
}

func presenceBit(ordinal, octetBit int, name string) BitsDescriptor {
	d := named(bits(octetBit, octetBit, bitfield.Unsigned), name)
	d.Presence = ordinal
	return d
}

func radarPlotCharacteristics() ItemFormat {
	primary := fxOctet("Primary",
		presenceBit(1, 8, "SRL"),
		presenceBit(2, 7, "SRR"),
		presenceBit(3, 6, "SAM"),
		presenceBit(4, 5, "PRL"),
		presenceBit(5, 4, "PAM"),
		presenceBit(6, 3, "RPD"),
		presenceBit(7, 2, "APD"),
	)

	srl := ItemFormat{Tag: Fixed, Name: "SSR Plot Runlength", Len: 1,
		Bits: []BitsDescriptor{scaledBits(1, 8, false, 360.0/8192.0)}}
	srr := ItemFormat{Tag: Fixed, Name: "SSR Reply Count", Len: 1,
		Bits: []BitsDescriptor{bits(1, 8, bitfield.Unsigned)}}
	sam := ItemFormat{Tag: Fixed, Name: "SSR Amplitude", Len: 1,
		Bits: []BitsDescriptor{bits(1, 8, bitfield.Signed)}}
	prl := ItemFormat{Tag: Fixed, Name: "PSR Plot Runlength", Len: 1,
		Bits: []BitsDescriptor{scaledBits(1, 8, false, 360.0/8192.0)}}
	pam := ItemFormat{Tag: Fixed, Name: "PSR Amplitude", Len: 1,
		Bits: []BitsDescriptor{bits(1, 8, bitfield.Signed)}}
	rpd := ItemFormat{Tag: Fixed, Name: "Range Difference", Len: 1,
		Bits: []BitsDescriptor{scaledBits(1, 8, true, 1.0/256.0)}}
	apd := ItemFormat{Tag: Fixed, Name: "Azimuth Difference", Len: 1,
		Bits: []BitsDescriptor{scaledBits(1, 8, true, 360.0/16384.0)}}

	return ItemFormat{
		Tag:  Compound,
		Name: "Radar Plot Characteristics",
		SubItems: []ItemFormat{
			variableOf(primary),
			srl, srr, sam, prl, pam, rpd, apd,
		},
	}
}

func aircraftAddress() ItemFormat {
	return ItemFormat{
		Tag: Fixed, Name: "Aircraft Address", Len: 3,
		Bits: []BitsDescriptor{bits(1, 24, bitfield.HexBit)},
	}
}

func aircraftIdentification() ItemFormat {
	return ItemFormat{
		Tag: Fixed, Name: "Aircraft Identification", Len: 6,
		Bits: []BitsDescriptor{bits(1, 48, bitfield.ICAO6)},
	}
}

func bdsRegisterData() ItemFormat {
	// The BDS format itself reads the 1-byte repetition count and then
	// count 8-byte registers (spec §3 "BDS"); no Repetitive wrapper needed.
	return ItemFormat{Tag: BDS, Name: "BDS Register Data"}
}

func trackNumber() ItemFormat {
	return ItemFormat{
		Tag: Fixed, Name: "Track Number", Len: 2,
		Bits: []BitsDescriptor{bits(1, 12, bitfield.Unsigned)},
	}
}

func calculatedPosition() ItemFormat {
	return ItemFormat{
		Tag: Fixed, Name: "Calculated Position", Len: 4,
		Bits: []BitsDescriptor{
			named(scaledBits(17, 32, true, 1.0/128.0), "X"),
			named(scaledBits(1, 16, true, 1.0/128.0), "Y"),
		},
	}
}

func calculatedTrackVelocity() ItemFormat {
	return ItemFormat{
		Tag: Fixed, Name: "Calculated Track Velocity", Len: 4,
		Bits: []BitsDescriptor{
			named(scaledBits(17, 32, false, 1.0/16384.0), "GROUND_SPEED"),
			named(scaledBits(1, 16, false, 360.0/65536.0), "HEADING"),
		},
	}
}

func trackStatus() ItemFormat {
	return variableOf(
		fxOctet("Primary",
			named(bits(8, 8, bitfield.Unsigned), "CNF"),
			named(bits(6, 7, bitfield.Unsigned), "RAD"),
			named(bits(5, 5, bitfield.Unsigned), "DOU"),
			named(bits(4, 4, bitfield.Unsigned), "MAH"),
			named(bits(2, 3, bitfield.Unsigned), "CDM"),
		),
		fxOctet("First Extension",
			named(bits(8, 8, bitfield.Unsigned), "TRE"),
			named(bits(7, 7, bitfield.Unsigned), "GHO"),
			named(bits(6, 6, bitfield.Unsigned), "SUP"),
			named(bits(5, 5, bitfield.Unsigned), "TCC"),
		),
	)
}

func builtinCat048() *Category {
	items := map[string]*DataItemDescription{
		"010": {ID: "010", Name: "Data Source Identifier", Rule: Mandatory, Format: dataSourceIdentifier()},
		"140": {ID: "140", Name: "Time of Day", Rule: Mandatory, Format: timeOfDay()},
		"020": {ID: "020", Name: "Target Report Descriptor", Rule: Mandatory, Format: targetReportDescriptor()},
		"040": {ID: "040", Name: "Measured Position in Polar Co-ordinates", Rule: Optional, Format: measuredPosition()},
		"070": {ID: "070", Name: "Mode-3/A Code", Rule: Optional, Format: mode3ACode()},
		"090": {ID: "090", Name: "Flight Level", Rule: Optional, Format: flightLevel()},
		"130": {ID: "130", Name: "Radar Plot Characteristics", Rule: Optional, Format: radarPlotCharacteristics()},
		"220": {ID: "220", Name: "Aircraft Address", Rule: Optional, Format: aircraftAddress()},
		"240": {ID: "240", Name: "Aircraft Identification", Rule: Optional, Format: aircraftIdentification()},
		"250": {ID: "250", Name: "Mode-S BDS Data", Rule: Optional, Format: bdsRegisterData()},
		"161": {ID: "161", Name: "Track Number", Rule: Optional, Format: trackNumber()},
		"042": {ID: "042", Name: "Calculated Position in Cartesian Co-ordinates", Rule: Optional, Format: calculatedPosition()},
		"200": {ID: "200", Name: "Calculated Track Velocity", Rule: Optional, Format: calculatedTrackVelocity()},
		"170": {ID: "170", Name: "Track Status", Rule: Optional, Format: trackStatus()},
	}

	uapItems := []UAPItem{
		{FRN: 1, Bit: 8, ItemID: "010"},
		{FRN: 2, Bit: 7, ItemID: "140"},
		{FRN: 3, Bit: 6, ItemID: "020"},
		{FRN: 4, Bit: 5, ItemID: "040"},
		{FRN: 5, Bit: 4, ItemID: "070"},
		{FRN: 6, Bit: 3, ItemID: "090"},
		{FRN: 7, Bit: 2, ItemID: "130"},
		{FRN: 8, Bit: 8, ItemID: "220"}, // second FSPEC octet; bit 1 of each octet is FX
		{FRN: 9, Bit: 7, ItemID: "240"},
		{FRN: 10, Bit: 6, ItemID: "250"},
		{FRN: 11, Bit: 5, ItemID: "161"},
		{FRN: 12, Bit: 4, ItemID: "042"},
		{FRN: 13, Bit: 3, ItemID: "200"},
		{FRN: 14, Bit: 2, ItemID: "170"},
	}
	uap, err := newUAP("", uapItems, nil)
	if err != nil {
		// Only reachable if the table above is internally inconsistent
		// (duplicate FRN or too few items), which a compiled-in constant
		// table never is.
		panic("catalog: builtin CAT048 UAP is malformed: " + err.Error())
	}

	return &Category{ID: 48, Name: "Monoradar Target Reports", Items: items, UAPs: []*UAP{uap}}
}
