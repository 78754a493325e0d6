//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// irqMu stands in for the global interrupt enable on host builds.
// Handlers entered through RunISR and main-loop critical sections exclude each other.
var irqMu sync.Mutex

// disableInterrupts enters a critical section
func disableInterrupts() State {
	irqMu.Lock()
	return 0
}

// restoreInterrupts leaves a critical section
func restoreInterrupts(state State) {
	irqMu.Unlock()
}

// RunISR runs fn the way an interrupt handler runs: to completion, with no
// other handler or critical section in progress.
func RunISR(fn func()) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	fn()
}
