// Package protocol implements the segmeter serial wire format
package protocol

// Version represents the segmeter firmware version
const Version = "0.1.0"

// Frame constants
const (
	FrameTerminator = '\n' // Ends a frame
	FrameCapacity   = 20   // Receive buffer size on the board
	FrameMaxLen     = FrameCapacity - 1

	// Baud is the line rate the board's UART is configured for
	Baud = 9600
)

// Command tokens. The board echoes the token back as its acknowledgment.
const (
	TokenPercent = 'P' // followed by one raw byte, the percentage
	TokenSound   = 'S' // no payload
)

// MaxPercent is the largest value the display accepts
const MaxPercent = 100

// ClampPercent limits p to [0, MaxPercent]
func ClampPercent(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > MaxPercent {
		return MaxPercent
	}
	return uint8(p)
}

// EncodePercent builds a percent frame. The payload is the raw byte value,
// not ASCII digits. A payload equal to FrameTerminator ends the frame early on
// the board, so 10 cannot be carried; ok is false in that case.
func EncodePercent(p int) (frame []byte, ok bool) {
	v := ClampPercent(p)
	if v == FrameTerminator {
		return nil, false
	}
	return []byte{TokenPercent, v, FrameTerminator}, true
}

// EncodeSound builds a sound-trigger frame
func EncodeSound() []byte {
	return []byte{TokenSound, FrameTerminator}
}

// FrameLen returns how many bytes of data the board keeps from data: everything
// before the first terminator, capped at FrameMaxLen.
func FrameLen(data []byte) int {
	for i, b := range data {
		if b == FrameTerminator || i == FrameMaxLen {
			return i
		}
	}
	return len(data)
}

// AckFor returns the acknowledgment byte the board sends for data, or 0 if
// the frame carries no recognizable command.
func AckFor(data []byte) byte {
	n := FrameLen(data)
	for i := 0; i < n; i++ {
		switch {
		case data[i] == TokenPercent && i+1 < n:
			return TokenPercent
		case data[i] == TokenSound:
			return TokenSound
		}
	}
	return 0
}
