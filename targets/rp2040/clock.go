//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"unsafe"

	"segmeter/core"
)

// RP2040/RP2350 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// GetHardwareTime returns the low 32 bits of the 1MHz hardware counter.
// core.TimerBefore tolerates the wrap every ~71 minutes.
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime copies the hardware counter into the core timer
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}
