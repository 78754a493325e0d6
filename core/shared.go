package core

import (
	"sync/atomic"

	"segmeter/protocol"
)

// Shared is the state that crosses the interrupt / main-loop boundary.
// Every field has exactly one writer; the comments name who writes and who reads.
type Shared struct {
	// completion: written by the Parser (clamped to 0-100), read by the Scanner
	completion uint32

	// frame: the Receiver owns it while frameReady is 0. Once frameReady is 1
	// the Parser reads frame[:frameIndex]; the Receiver only touches
	// frame[frameIndex] until the Loop releases the frame.
	frame [protocol.FrameCapacity]byte

	// frameIndex: advanced by the Receiver, reset by the Loop after parsing
	frameIndex uint32

	// frameReady: set by the Receiver, cleared by the Loop
	frameReady uint32

	// sound: set by the Parser, consumed by the Loop
	sound uint32
}

// NewShared returns zeroed boot state
func NewShared() *Shared {
	return &Shared{}
}

// Completion returns the percentage currently on display
func (s *Shared) Completion() uint8 {
	return uint8(atomic.LoadUint32(&s.completion))
}

// SetCompletion stores v, clamped to protocol.MaxPercent
func (s *Shared) SetCompletion(v uint8) {
	if v > protocol.MaxPercent {
		v = protocol.MaxPercent
	}
	atomic.StoreUint32(&s.completion, uint32(v))
}

// FrameReady reports whether a complete frame waits for the Parser
func (s *Shared) FrameReady() bool {
	return atomic.LoadUint32(&s.frameReady) != 0
}

// SoundPending reports whether a sound trigger waits for the Loop
func (s *Shared) SoundPending() bool {
	return atomic.LoadUint32(&s.sound) != 0
}

// pendingFrame returns the completed frame. Only valid while FrameReady.
func (s *Shared) pendingFrame() []byte {
	return s.frame[:atomic.LoadUint32(&s.frameIndex)]
}

// releaseFrame hands the buffer back to the Receiver. The flag is cleared
// before the index is reset, both inside one critical section so a byte
// arriving in between cannot land at a stale index.
func (s *Shared) releaseFrame() {
	state := disableInterrupts()
	atomic.StoreUint32(&s.frameReady, 0)
	atomic.StoreUint32(&s.frameIndex, 0)
	restoreInterrupts(state)
}

func (s *Shared) triggerSound() {
	atomic.StoreUint32(&s.sound, 1)
}

// takeSound clears a pending sound trigger and reports whether there was one
func (s *Shared) takeSound() bool {
	return atomic.CompareAndSwapUint32(&s.sound, 1, 0)
}
