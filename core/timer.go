package core

import "sync/atomic"

// The system timer counts microseconds, matching the RP2040 hardware timer.
const (
	TimerFreq = 1000000

	// ScanPeriodUS is the display refresh interval for one digit position
	ScanPeriodUS = 5000
	ScanPeriod   = ScanPeriodUS * (TimerFreq / 1000000)
)

var systemTicks uint32

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// SetTime sets the current system time (board code copies the hardware counter here)
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return ticks / (TimerFreq / 1000000)
}

// TimerBefore reports whether a is earlier than b, tolerating counter wrap
func TimerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// ProcessTimers runs every timer of the global scheduler that is due
func ProcessTimers() {
	globalScheduler.Dispatch(GetTime())
}
