//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"segmeter/core"
)

// fail blinks the LED count times forever
func fail(count int) {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		for i := 0; i < count; i++ {
			led.High()
			time.Sleep(150 * time.Millisecond)
			led.Low()
			time.Sleep(150 * time.Millisecond)
		}
		time.Sleep(time.Second)
	}
}

func main() {
	// Disable the watchdog left over from a previous run
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitDebugUART()
	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	if err := InitHostUART(); err != nil {
		fail(1)
	}

	display, err := core.NewGPIODisplay(NewRPGPIODriver(), selectPins, segmentPins)
	if err != nil {
		fail(2)
	}

	buzzer, err := newBoardBuzzer()
	if err != nil {
		fail(3)
	}
	buzzer.Off()

	fw := core.NewFirmware(core.Hardware{
		Display: display,
		Tx:      uartTx{uart: hostUART},
		Player:  core.NewMelodyPlayer(buzzer, core.DefaultMelody),
	})
	core.DebugPrintln(fw.Registry.Dictionary())

	UpdateSystemTime()
	fw.Start(core.GetGlobalScheduler(), core.GetTime())

	go uartReaderLoop(fw.Receiver)
	go scanLoop()

	for {
		fw.Loop.Poll()
		time.Sleep(10 * time.Microsecond)
	}
}

// scanLoop stands in for the timer interrupt, firing due timers so the
// display keeps refreshing while the main loop plays a melody.
func scanLoop() {
	for {
		UpdateSystemTime()
		core.ProcessTimers()
		time.Sleep(500 * time.Microsecond)
	}
}
