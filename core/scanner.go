package core

// Scanner multiplexes the display, one position per tick.
// Tick is the timer interrupt handler; the cursor belongs to it alone.
type Scanner struct {
	st      *Shared
	display DisplayDriver
	cursor  uint8
}

// NewScanner creates a scanner showing st's completion value on display
func NewScanner(st *Shared, display DisplayDriver) *Scanner {
	return &Scanner{st: st, display: display}
}

// Cursor returns the position handled by the last tick (0 before the first)
func (s *Scanner) Cursor() uint8 {
	return s.cursor
}

// Tick advances to the next position and drives it from the completion value.
// Leading zeros in the hundreds and tens positions are blanked; the units
// position always shows a digit and the fourth shows the percent sign.
func (s *Scanner) Tick() {
	s.cursor++
	if s.cursor > NumPositions {
		s.cursor = 1
	}

	v := s.st.Completion()
	hundreds := v / 100
	tens := (v % 100) / 10
	units := v % 10

	switch s.cursor {
	case 1:
		if hundreds > 0 {
			s.display.Show(1, DigitSegments(hundreds))
		} else {
			s.display.Blank()
		}
	case 2:
		if hundreds > 0 || tens > 0 {
			s.display.Show(2, DigitSegments(tens))
		} else {
			s.display.Blank()
		}
	case 3:
		s.display.Show(3, DigitSegments(units))
	case 4:
		s.display.Show(4, PercentGlyph)
	}
}

// Timer returns a timer that ticks the scanner every ScanPeriod, starting one
// period after start. Each firing reloads the timer for the next period.
func (s *Scanner) Timer(start uint32) *Timer {
	return &Timer{
		WakeTime: start + ScanPeriod,
		Handler: func(t *Timer) uint8 {
			s.Tick()
			t.WakeTime += ScanPeriod
			return SF_RESCHEDULE
		},
	}
}
