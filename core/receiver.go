package core

import (
	"sync/atomic"

	"segmeter/protocol"
)

// Receiver assembles incoming serial bytes into frames.
// OnByte is the UART receive handler and never blocks.
type Receiver struct {
	st *Shared
}

// NewReceiver creates a receiver filling st's frame buffer
func NewReceiver(st *Shared) *Receiver {
	return &Receiver{st: st}
}

// OnByte stores one received byte. A terminator, or reaching the last slot of
// the buffer, marks the frame ready; the index then stays put until the Loop
// resets it, so further bytes overwrite the slot just past the frame.
func (r *Receiver) OnByte(b byte) {
	st := r.st
	idx := atomic.LoadUint32(&st.frameIndex)
	st.frame[idx] = b

	// A frame is waiting for the Loop; keep its length fixed
	if atomic.LoadUint32(&st.frameReady) != 0 {
		return
	}

	if b == protocol.FrameTerminator || idx >= protocol.FrameCapacity-1 {
		atomic.StoreUint32(&st.frameReady, 1)
		return
	}
	atomic.StoreUint32(&st.frameIndex, idx+1)
}
