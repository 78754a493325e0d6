package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBuzzer struct {
	notes []Note
	offs  int
}

func (b *recordingBuzzer) Tone(halfPeriodUS, toggles uint32) {
	b.notes = append(b.notes, Note{HalfPeriodUS: halfPeriodUS, Toggles: toggles})
}

func (b *recordingBuzzer) Off() {
	b.offs++
}

func TestMelodyPlayerPlaysDefaultMelody(t *testing.T) {
	t.Parallel()

	b := &recordingBuzzer{}
	NewMelodyPlayer(b, DefaultMelody).Play()

	require.Len(t, b.notes, 6)
	for i := 0; i < 6; i += 2 {
		assert.Equal(t, Note{HalfPeriodUS: 1000, Toggles: 200}, b.notes[i])
		assert.Equal(t, Note{HalfPeriodUS: 2000, Toggles: 200}, b.notes[i+1])
	}
	assert.Equal(t, 1, b.offs)
}

func TestGPIOBuzzerToggles(t *testing.T) {
	t.Parallel()

	mock := NewMockGPIODriver()
	var waited uint32
	b, err := NewGPIOBuzzer(mock, 27, true, func(us uint32) { waited += us })
	require.NoError(t, err)

	level, _ := mock.GetPin(27)
	assert.True(t, level, "active-low buzzer is off when high")

	writesBefore := mock.writes
	b.Tone(500, 4)
	assert.Equal(t, 4, mock.writes-writesBefore)
	assert.Equal(t, uint32(2000), waited)

	b.Off()
	level, _ = mock.GetPin(27)
	assert.True(t, level)
}
