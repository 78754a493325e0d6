//go:build rp2350

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/tone"
)

// ToneBuzzer plays the buzzer square wave on a PWM slice
type ToneBuzzer struct {
	speaker tone.Speaker
}

// NewToneBuzzer drives pin from pwm, silent until the first Tone
func NewToneBuzzer(pwm tone.PWM, pin machine.Pin) (*ToneBuzzer, error) {
	speaker, err := tone.New(pwm, pin)
	if err != nil {
		return nil, err
	}
	speaker.Stop()
	return &ToneBuzzer{speaker: speaker}, nil
}

// Tone implements core.Buzzer. Two toggles make one period.
func (b *ToneBuzzer) Tone(halfPeriodUS, toggles uint32) {
	b.speaker.SetPeriod(uint64(halfPeriodUS) * 2 * uint64(time.Microsecond))
	time.Sleep(time.Duration(halfPeriodUS) * time.Duration(toggles) * time.Microsecond)
}

// Off implements core.Buzzer
func (b *ToneBuzzer) Off() {
	b.speaker.Stop()
}

func newBoardBuzzer() (*ToneBuzzer, error) {
	return NewToneBuzzer(machine.PWM7, buzzerPin)
}
