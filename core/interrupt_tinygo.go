//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts disables interrupts and returns the previous state
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}

// RunISR runs fn with interrupts disabled. Board code that services a
// peripheral from a goroutine uses it to get handler semantics.
func RunISR(fn func()) {
	state := interrupt.Disable()
	fn()
	interrupt.Restore(state)
}
