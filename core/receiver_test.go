package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segmeter/protocol"
)

func TestReceiverTerminatorCompletesFrame(t *testing.T) {
	t.Parallel()

	st := NewShared()
	r := NewReceiver(st)

	feed(r, []byte("ab"))
	assert.False(t, st.FrameReady())

	r.OnByte('\n')
	require.True(t, st.FrameReady())
	assert.Equal(t, []byte("ab"), st.pendingFrame())
}

func TestReceiverForcesCompletionAtCapacity(t *testing.T) {
	t.Parallel()

	st := NewShared()
	r := NewReceiver(st)

	data := make([]byte, 25)
	for i := range data {
		data[i] = 'a' + byte(i)
	}

	feed(r, data[:protocol.FrameMaxLen])
	assert.False(t, st.FrameReady(), "19 bytes must not complete the frame yet")

	r.OnByte(data[protocol.FrameMaxLen])
	require.True(t, st.FrameReady())
	assert.Equal(t, data[:protocol.FrameMaxLen], st.pendingFrame())

	// Later bytes land on the slot past the frame, not inside it
	feed(r, data[protocol.FrameCapacity:])
	assert.Equal(t, data[:protocol.FrameMaxLen], st.pendingFrame())
}

func TestReceiverBytesWhilePendingStayOutsideFrame(t *testing.T) {
	t.Parallel()

	st := NewShared()
	r := NewReceiver(st)

	feed(r, []byte("S\n"))
	feed(r, []byte("xyz"))

	assert.True(t, st.FrameReady())
	assert.Equal(t, []byte("S"), st.pendingFrame())
}

func TestReceiverReleaseStartsNewFrame(t *testing.T) {
	t.Parallel()

	st := NewShared()
	r := NewReceiver(st)

	feed(r, []byte("first\n"))
	st.releaseFrame()
	assert.False(t, st.FrameReady())

	feed(r, []byte("2nd\n"))
	require.True(t, st.FrameReady())
	assert.Equal(t, []byte("2nd"), st.pendingFrame())
}

func TestReceiverEmptyFrame(t *testing.T) {
	t.Parallel()

	st := NewShared()
	r := NewReceiver(st)

	r.OnByte('\n')
	require.True(t, st.FrameReady())
	assert.Empty(t, st.pendingFrame())
}

func TestReceiverPendingFrameKeepsItsLength(t *testing.T) {
	t.Parallel()

	st := NewShared()
	r := NewReceiver(st)

	feed(r, []byte("xx\n"))
	feed(r, []byte("P\x32\n"))

	require.True(t, st.FrameReady())
	assert.Equal(t, []byte("xx"), st.pendingFrame())
}
