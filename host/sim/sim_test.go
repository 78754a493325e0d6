package sim

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"segmeter/core"
	"segmeter/host/board"
	"segmeter/protocol"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// start runs s until the test ends
func start(t *testing.T, s *Sim) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
}

// scan advances the fake clock through n scan periods
func scan(t *testing.T, s *Sim, clock *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	for i := 0; i < n; i++ {
		before := s.Display().Refreshes()
		clock.Advance(core.ScanPeriodUS * time.Microsecond)
		require.Eventually(t, func() bool { return s.Display().Refreshes() > before },
			time.Second, time.Millisecond)
	}
}

func readAck(t *testing.T, s *Sim) byte {
	t.Helper()
	buf := make([]byte, 1)
	n, err := s.HostPort().Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	return buf[0]
}

func TestSimPercentFrame(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(WithClock(clock))
	start(t, s)

	_, err := s.HostPort().Write([]byte{'P', 42, '\n'})
	require.NoError(t, err)
	assert.Equal(t, byte('P'), readAck(t, s))
	assert.Equal(t, uint8(42), s.Completion())

	scan(t, s, clock, core.NumPositions)
	assert.Equal(t, " 42%", s.Text())
	assert.Equal(t, [core.NumPositions]uint8{core.SegmentsOff, 0x66, 0x5B, core.PercentGlyph}, s.Snapshot())
}

func TestSimSuppression(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "  0%"},
		{7, "  7%"},
		{100, "100%"},
		{250, "100%"},
	}

	for _, tt := range tests {
		clock := clockwork.NewFakeClock()
		s := New(WithClock(clock))
		start(t, s)

		frame, ok := protocol.EncodePercent(tt.percent)
		require.True(t, ok)
		_, err := s.HostPort().Write(frame)
		require.NoError(t, err)
		require.Equal(t, byte('P'), readAck(t, s))

		scan(t, s, clock, core.NumPositions)
		assert.Equal(t, tt.want, s.Text(), "percent %d", tt.percent)
	}
}

func TestSimSound(t *testing.T) {
	s := New(WithClock(clockwork.NewFakeClock()))
	start(t, s)

	_, err := s.HostPort().Write(protocol.EncodeSound())
	require.NoError(t, err)
	assert.Equal(t, byte('S'), readAck(t, s))

	require.Eventually(t, func() bool { return s.Buzzer().Melodies() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, uint32(3*(200+200)), s.Buzzer().Toggles())
}

func TestSimIgnoresUnknownFrame(t *testing.T) {
	s := New(WithClock(clockwork.NewFakeClock()))
	start(t, s)

	_, err := s.HostPort().Write([]byte("hello\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return s.Firmware().Loop.Frames() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, uint8(0), s.Completion())

	// The link stays usable
	_, err = s.HostPort().Write([]byte{'P', 5, '\n'})
	require.NoError(t, err)
	assert.Equal(t, byte('P'), readAck(t, s))
}

func TestSimRxOverrun(t *testing.T) {
	s := New(WithFifoSize(4))

	n, err := s.HostPort().Write([]byte("PPPPPP"))
	assert.ErrorIs(t, err, ErrRxOverrun)
	assert.Equal(t, 3, n)
}

func TestSimClosedPort(t *testing.T) {
	s := New()
	require.NoError(t, s.HostPort().Close())

	_, err := s.HostPort().Write([]byte{'S', '\n'})
	assert.Error(t, err)
	_, err = s.HostPort().Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestBoardAgainstSim(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(WithClock(clock))
	start(t, s)

	b := board.New(s.HostPort(), board.WithAckTimeout(time.Second))
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, b.SetPercent(ctx, 75))
	require.NoError(t, b.SetPercent(ctx, 75))
	assert.Equal(t, uint8(75), s.Completion())

	require.NoError(t, b.PlaySound(ctx))
	require.Eventually(t, func() bool { return s.Buzzer().Melodies() == 1 }, time.Second, time.Millisecond)

	scan(t, s, clock, core.NumPositions)
	assert.Equal(t, " 75%", s.Text())
	assert.Equal(t, uint32(3), s.Firmware().Loop.Frames())
}

func TestText(t *testing.T) {
	assert.Equal(t, "1?0%", Text([core.NumPositions]uint8{0x06, 0xFF, 0x3F, core.PercentGlyph}))
}

func TestSimBackToBackFramesBeforePoll(t *testing.T) {
	s := New(WithClock(clockwork.NewFakeClock()))

	// Both frames reach the receiver before the main loop runs
	_, err := s.HostPort().Write([]byte{'S', '\n'})
	require.NoError(t, err)
	s.deliverRx()
	_, err = s.HostPort().Write([]byte{'P', 50, '\n'})
	require.NoError(t, err)
	s.deliverRx()

	s.fw.Loop.Poll()
	assert.Equal(t, 1, s.Buzzer().Melodies())
	assert.Equal(t, uint8(0), s.Completion(), "second frame arrived while the first was pending")
	assert.Equal(t, byte('S'), readAck(t, s))

	_, err = s.HostPort().Write([]byte{'P', 50, '\n'})
	require.NoError(t, err)
	s.deliverRx()
	s.fw.Loop.Poll()

	assert.Equal(t, uint8(50), s.Completion())
	assert.Equal(t, byte('P'), readAck(t, s))
}

func TestSimStopDarkensDisplay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	scan(t, s, clock, 3)
	assert.NotEqual(t, core.SegmentsOff, s.Snapshot()[2])

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, core.SegmentsOff, s.Snapshot()[2], "position being scanned goes dark")
}
