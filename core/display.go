package core

// NumPositions is the number of multiplexed digit positions
const NumPositions = 4

// DisplayDriver drives a multiplexed seven-segment display.
// At most one position is lit at any time.
type DisplayDriver interface {
	// Show selects pos (1-4) and drives segments on it
	Show(pos uint8, segments uint8)

	// Blank turns every position and segment off
	Blank()
}

// PositionSelect returns the 3-bit select code for a digit position.
// The display decoder is wired inverted: position 1 is 0b111, position 4 is 0b100.
func PositionSelect(pos uint8) uint8 {
	return (8 - pos) & 0x07
}

// GPIODisplay implements DisplayDriver on GPIO lines: three binary select
// lines feeding the position decoder and eight segment lines.
type GPIODisplay struct {
	gpio     GPIODriver
	selPins  [3]GPIOPin // least significant bit first
	segPins  [8]GPIOPin // segment a first, dp last
	segments uint8
}

// NewGPIODisplay configures the select and segment pins as outputs and blanks the display
func NewGPIODisplay(gpio GPIODriver, selPins [3]GPIOPin, segPins [8]GPIOPin) (*GPIODisplay, error) {
	d := &GPIODisplay{
		gpio:    gpio,
		selPins: selPins,
		segPins: segPins,
	}

	for _, pin := range selPins {
		if err := gpio.ConfigureOutput(pin); err != nil {
			return nil, err
		}
	}
	for _, pin := range segPins {
		if err := gpio.ConfigureOutput(pin); err != nil {
			return nil, err
		}
	}

	d.segments = 0xFF // force every segment line to be written once
	d.Blank()
	return d, nil
}

// Show implements DisplayDriver. Segments are switched off before the
// position changes so the previous digit does not ghost onto the new one.
func (d *GPIODisplay) Show(pos uint8, segments uint8) {
	d.writeSegments(SegmentsOff)
	d.writeSelect(PositionSelect(pos))
	d.writeSegments(segments)
}

// Blank implements DisplayDriver
func (d *GPIODisplay) Blank() {
	d.writeSegments(SegmentsOff)
	d.writeSelect(0x07)
}

func (d *GPIODisplay) writeSelect(code uint8) {
	for i, pin := range d.selPins {
		_ = d.gpio.SetPin(pin, code&(1<<i) != 0)
	}
}

// writeSegments only touches lines whose level changes
func (d *GPIODisplay) writeSegments(code uint8) {
	changed := code ^ d.segments
	for i, pin := range d.segPins {
		if changed&(1<<i) != 0 {
			_ = d.gpio.SetPin(pin, code&(1<<i) != 0)
		}
	}
	d.segments = code
}
