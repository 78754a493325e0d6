package core

// Common-cathode segment codes, bit 0 = segment a ... bit 6 = g, bit 7 = dp
var digitSegments = [10]uint8{0x3F, 0x06, 0x5B, 0x4F, 0x66, 0x6D, 0x7D, 0x07, 0x7F, 0x6F}

const (
	// PercentGlyph is the code shown in the fourth position
	PercentGlyph uint8 = 0x63

	// SegmentsOff lights nothing
	SegmentsOff uint8 = 0x00
)

// DigitSegments returns the segment code for a decimal digit
func DigitSegments(d uint8) uint8 {
	return digitSegments[d%10]
}
