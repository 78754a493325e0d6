package sim

import (
	"sync"

	"segmeter/core"
)

// Display latches what the scanner drives on each position, the way the
// eye sees a multiplexed display.
type Display struct {
	mu     sync.Mutex
	glyphs [core.NumPositions]uint8
	shows  int
	blanks int

	// cursor reports the position being scanned when Blank is called
	cursor func() uint8
}

func (d *Display) Show(pos uint8, segments uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pos >= 1 && pos <= core.NumPositions {
		d.glyphs[pos-1] = segments
	}
	d.shows++
}

func (d *Display) Blank() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cursor != nil {
		if pos := d.cursor(); pos >= 1 && pos <= core.NumPositions {
			d.glyphs[pos-1] = core.SegmentsOff
		}
	}
	d.blanks++
}

// Glyphs returns the latched segment patterns, position 1 first
func (d *Display) Glyphs() [core.NumPositions]uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.glyphs
}

// Refreshes returns how many Show and Blank calls the display received
func (d *Display) Refreshes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shows + d.blanks
}

// Text renders glyphs as characters: digits, '%' for the percent sign,
// ' ' for a dark position and '?' for anything else.
func Text(glyphs [core.NumPositions]uint8) string {
	out := make([]byte, len(glyphs))
	for i, g := range glyphs {
		out[i] = glyphChar(g)
	}
	return string(out)
}

func glyphChar(g uint8) byte {
	switch g {
	case core.SegmentsOff:
		return ' '
	case core.PercentGlyph:
		return '%'
	}
	for d := uint8(0); d <= 9; d++ {
		if core.DigitSegments(d) == g {
			return '0' + d
		}
	}
	return '?'
}

// Buzzer counts the tones the firmware plays without producing sound
type Buzzer struct {
	mu      sync.Mutex
	tones   int
	toggles uint32
	offs    int
}

func (b *Buzzer) Tone(halfPeriodUS, toggles uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tones++
	b.toggles += toggles
}

func (b *Buzzer) Off() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offs++
}

// Melodies returns how many times the buzzer was switched off after playing
func (b *Buzzer) Melodies() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.offs
}

// Toggles returns the total output toggles played
func (b *Buzzer) Toggles() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.toggles
}
