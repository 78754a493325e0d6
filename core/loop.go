package core

import (
	"sync/atomic"

	"segmeter/protocol"
)

// Loop is the main-loop dispatcher. Poll never blocks except while the
// parser waits for an acknowledgment to drain or the player runs.
type Loop struct {
	st     *Shared
	parser *Parser
	player Player
	events EventRing

	frames uint32
	errors uint32
}

// NewLoop creates a main loop. player may be nil.
func NewLoop(st *Shared, parser *Parser, player Player) *Loop {
	return &Loop{st: st, parser: parser, player: player}
}

// Poll handles a pending frame, then a pending sound trigger.
func (l *Loop) Poll() {
	if l.st.FrameReady() {
		frame := l.st.pendingFrame()
		atomic.AddUint32(&l.frames, 1)
		l.events.Record(EvtFrame, uint32(len(frame)))

		cmd, err := l.parser.Parse(frame)
		switch {
		case cmd == nil:
			l.events.Record(EvtIgnored, uint32(len(frame)))
		case cmd.Token == protocol.TokenPercent:
			l.events.Record(EvtPercent, uint32(l.st.Completion()))
		default:
			l.events.Record(EvtCommand, uint32(cmd.Token))
		}
		if err != nil {
			atomic.AddUint32(&l.errors, 1)
			l.events.Record(EvtAckTimeout, uint32(cmd.Token))
			DebugAsync("ack failed for " + cmd.Name + ": " + err.Error())
		}

		l.st.releaseFrame()

		if err != nil && IsDebugEnabled() {
			l.events.Dump()
		}
	}

	if l.st.takeSound() {
		l.events.Record(EvtSound, 0)
		if l.player != nil {
			l.player.Play()
		}
	}
}

// Frames returns how many frames have been parsed
func (l *Loop) Frames() uint32 {
	return atomic.LoadUint32(&l.frames)
}

// Errors returns how many acknowledgments failed
func (l *Loop) Errors() uint32 {
	return atomic.LoadUint32(&l.errors)
}

// Events returns the loop's event ring
func (l *Loop) Events() *EventRing {
	return &l.events
}
