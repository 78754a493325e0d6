package core

import "sync"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if IsDebugEnabled() && debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// Event type codes
const (
	EvtFrame      = 1 // frame handed to the parser, value = length
	EvtPercent    = 2 // percent applied, value = new completion
	EvtCommand    = 3 // other command applied, value = token
	EvtIgnored    = 4 // frame without a command, value = length
	EvtAckTimeout = 5 // acknowledgment did not drain, value = token
	EvtSound      = 6 // sound trigger consumed
)

const EventRingSize = 32

// Event is one entry of the post-mortem ring
type Event struct {
	Type  uint8
	Clock uint32
	Value uint32
}

// EventRing keeps the last EventRingSize events
type EventRing struct {
	mu   sync.Mutex
	ring [EventRingSize]Event
	head uint8
	n    uint8
}

// Record appends an event stamped with the current system time
func (r *EventRing) Record(eventType uint8, value uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ring[r.head] = Event{Type: eventType, Clock: GetTime(), Value: value}
	r.head = (r.head + 1) % EventRingSize
	if r.n < EventRingSize {
		r.n++
	}
}

// Snapshot returns the recorded events, oldest first
func (r *EventRing) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, 0, r.n)
	start := (r.head + EventRingSize - r.n) % EventRingSize
	for i := uint8(0); i < r.n; i++ {
		out = append(out, r.ring[(start+i)%EventRingSize])
	}
	return out
}

// Clear empties the ring
func (r *EventRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ring = [EventRingSize]Event{}
	r.head = 0
	r.n = 0
}

// Dump writes the ring through the debug writer
func (r *EventRing) Dump() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range r.Snapshot() {
		var name string
		switch evt.Type {
		case EvtFrame:
			name = "FRAME"
		case EvtPercent:
			name = "PERCENT"
		case EvtCommand:
			name = "COMMAND"
		case EvtIgnored:
			name = "IGNORED"
		case EvtAckTimeout:
			name = "ACK_TIMEOUT!"
		case EvtSound:
			name = "SOUND"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[EVENTS] " + name +
			" t=" + utoa(TimerToUS(evt.Clock)) + "us" +
			" value=" + utoa(evt.Value))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}
