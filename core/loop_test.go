package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBoard struct {
	fw      *Firmware
	tx      *fakeTx
	display *recordingDisplay
	player  *countingPlayer
}

func newTestBoard() *testBoard {
	b := &testBoard{
		tx:      newFakeTx(),
		display: &recordingDisplay{},
		player:  &countingPlayer{},
	}
	b.fw = NewFirmware(Hardware{Display: b.display, Tx: b.tx, Player: b.player})
	return b
}

func (b *testBoard) send(data []byte) {
	feed(b.fw.Receiver, data)
	b.fw.Loop.Poll()
}

func TestLoopPercentRoundTrip(t *testing.T) {
	t.Parallel()

	b := newTestBoard()
	b.send([]byte("P\x32\n"))

	assert.Equal(t, uint8(50), b.fw.Shared.Completion())
	assert.Equal(t, []byte("P"), b.tx.sent)
	assert.False(t, b.fw.Shared.FrameReady())
	assert.Equal(t, uint32(1), b.fw.Loop.Frames())
}

func TestLoopSoundPlaysOnce(t *testing.T) {
	t.Parallel()

	b := newTestBoard()
	b.send([]byte("S\n"))
	assert.Equal(t, 1, b.player.plays)

	b.fw.Loop.Poll()
	assert.Equal(t, 1, b.player.plays, "trigger must be consumed")
}

func TestLoopLongFrameWithoutTerminator(t *testing.T) {
	t.Parallel()

	b := newTestBoard()
	frame := []byte("abcdefghijklmnopqSxyzuvw")

	feed(b.fw.Receiver, frame[:20])
	require.True(t, b.fw.Shared.FrameReady())
	b.fw.Loop.Poll()

	assert.Equal(t, 1, b.player.plays)
	assert.Equal(t, []byte("S"), b.tx.sent)
}

func TestLoopTokenPastTruncationIgnored(t *testing.T) {
	t.Parallel()

	b := newTestBoard()
	// 'S' sits at index 19, the slot excluded from the parsed frame
	frame := []byte("abcdefghijklmnopqrsS")

	b.send(frame)
	assert.Equal(t, 0, b.player.plays)
	assert.Empty(t, b.tx.sent)

	events := b.fw.Loop.Events().Snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, uint8(EvtIgnored), events[1].Type)
}

func TestLoopConsecutiveFrames(t *testing.T) {
	t.Parallel()

	b := newTestBoard()
	b.send([]byte{'P', 30, '\n'})
	b.send([]byte{'P', 30, '\n'})
	b.send([]byte{'P', 200, '\n'})

	assert.Equal(t, uint8(100), b.fw.Shared.Completion())
	assert.Equal(t, []byte("PPP"), b.tx.sent)
	assert.Equal(t, uint32(3), b.fw.Loop.Frames())
}

func TestLoopRecordsAckTimeout(t *testing.T) {
	t.Parallel()

	b := newTestBoard()
	b.tx.complete = false
	b.fw.Parser.AckPolls = 10

	b.send([]byte{'P', 12, '\n'})

	assert.Equal(t, uint8(12), b.fw.Shared.Completion())
	assert.Equal(t, uint32(1), b.fw.Loop.Errors())
	assert.False(t, b.fw.Shared.FrameReady(), "frame must be released after a failed ack")

	events := b.fw.Loop.Events().Snapshot()
	require.NotEmpty(t, events)
	assert.Equal(t, uint8(EvtAckTimeout), events[len(events)-1].Type)
}

func TestLoopIdleDoesNothing(t *testing.T) {
	t.Parallel()

	b := newTestBoard()
	b.fw.Loop.Poll()

	assert.Equal(t, uint32(0), b.fw.Loop.Frames())
	assert.Empty(t, b.fw.Loop.Events().Snapshot())
}

func TestLoopFrameArrivingBeforePollIsDropped(t *testing.T) {
	t.Parallel()

	b := newTestBoard()
	feed(b.fw.Receiver, []byte("xx\n"))
	feed(b.fw.Receiver, []byte{'P', 50, '\n'})
	b.fw.Loop.Poll()

	assert.Equal(t, uint8(0), b.fw.Shared.Completion())
	assert.Empty(t, b.tx.sent)

	b.send([]byte{'P', 50, '\n'})
	assert.Equal(t, uint8(50), b.fw.Shared.Completion())
	assert.Equal(t, []byte("P"), b.tx.sent)
}

func TestLoopReleasesFrameAfterParse(t *testing.T) {
	t.Parallel()

	b := newTestBoard()
	var readyDuringAck bool
	b.tx.onWrite = func(byte) {
		readyDuringAck = b.fw.Shared.FrameReady()
		// A byte arriving during the ack must not extend the parsed frame
		b.fw.Receiver.OnByte('z')
	}

	b.send([]byte{'P', 20, '\n'})
	assert.True(t, readyDuringAck, "frame released before the parser finished")
	assert.Equal(t, uint8(20), b.fw.Shared.Completion())
	assert.False(t, b.fw.Shared.FrameReady())

	b.tx.onWrite = nil
	feed(b.fw.Receiver, []byte("S\n"))
	require.True(t, b.fw.Shared.FrameReady())
	assert.Equal(t, []byte("S"), b.fw.Shared.pendingFrame())

	b.fw.Loop.Poll()
	assert.Equal(t, 1, b.player.plays)
	assert.Equal(t, []byte("PS"), b.tx.sent)
}
