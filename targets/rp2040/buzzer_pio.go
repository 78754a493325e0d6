//go:build rp2040

package main

import (
	"machine"
	"runtime"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Each command word is one half period of the square wave:
//
//	Bits 0-30: delay in state machine cycles
//	Bit 31:    output level
//
// The state machine runs at 1MHz so one delay cycle is one microsecond.
func buildBuzzerProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 31).Encode(),   // 1: out x, 31 (delay)
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 2: out pins, 1 (level)
		// delay_loop:
		asm.Jmp(3, rp2pio.JmpXNZeroDec).Encode(), // 3: jmp x--, 3
		// .wrap
	}
}

const (
	buzzerPIOOrigin = 0

	// pull, out, out and the final jmp
	buzzerOverheadCycles = 4

	// 125MHz system clock / 125 = 1MHz
	buzzerClkDiv = 125
)

// PIOBuzzer generates the buzzer square wave on a PIO state machine
type PIOBuzzer struct {
	pio   *rp2pio.PIO
	sm    rp2pio.StateMachine
	pin   machine.Pin
	level bool
}

// NewPIOBuzzer loads the buzzer program on PIO0 and drives pin low
func NewPIOBuzzer(pin machine.Pin, smNum uint8) (*PIOBuzzer, error) {
	b := &PIOBuzzer{
		pio: rp2pio.PIO0,
		pin: pin,
	}
	b.sm = b.pio.StateMachine(smNum)
	b.sm.TryClaim()

	program := buildBuzzerProgram()
	offset, err := b.pio.AddProgram(program, buzzerPIOOrigin)
	if err != nil {
		return nil, err
	}

	b.pin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(b.pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(buzzerClkDiv, 0)

	b.sm.Init(offset, cfg)
	b.sm.SetPindirsConsecutive(b.pin, 1, true)
	b.sm.SetPinsConsecutive(b.pin, 1, false)
	b.sm.SetEnabled(true)

	return b, nil
}

// Tone implements core.Buzzer. It returns once the last half period is queued.
func (b *PIOBuzzer) Tone(halfPeriodUS, toggles uint32) {
	delay := uint32(0)
	if halfPeriodUS > buzzerOverheadCycles {
		delay = halfPeriodUS - buzzerOverheadCycles
	}

	for i := uint32(0); i < toggles; i++ {
		b.level = !b.level
		b.put(delay, b.level)
	}
}

// Off implements core.Buzzer
func (b *PIOBuzzer) Off() {
	b.level = false
	b.put(0, false)
}

func (b *PIOBuzzer) put(delay uint32, level bool) {
	cmd := delay & 0x7FFFFFFF
	if level {
		cmd |= 1 << 31
	}

	// Let the scan goroutine run while the FIFO drains
	for b.sm.IsTxFIFOFull() {
		runtime.Gosched()
	}
	b.sm.TxPut(cmd)
}

func newBoardBuzzer() (*PIOBuzzer, error) {
	return NewPIOBuzzer(buzzerPin, 0)
}
