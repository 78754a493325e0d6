package core

import "sync"

// MockGPIODriver is a test implementation of GPIODriver
type MockGPIODriver struct {
	mu     sync.Mutex
	pins   map[GPIOPin]bool
	writes int
}

func NewMockGPIODriver() *MockGPIODriver {
	return &MockGPIODriver{
		pins: make(map[GPIOPin]bool),
	}
}

func (m *MockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pins[pin] = false
	return nil
}

func (m *MockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pins[pin] = value
	m.writes++
	return nil
}

func (m *MockGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pins[pin], nil
}

// fakeTx records acknowledgment bytes; complete controls TxComplete
type fakeTx struct {
	sent     []byte
	complete bool
	polls    int

	// onWrite runs after each byte is queued, while the parser waits
	onWrite func(c byte)
}

func newFakeTx() *fakeTx {
	return &fakeTx{complete: true}
}

func (f *fakeTx) WriteByte(c byte) error {
	f.sent = append(f.sent, c)
	if f.onWrite != nil {
		f.onWrite(c)
	}
	return nil
}

func (f *fakeTx) TxComplete() bool {
	f.polls++
	return f.complete
}

type shown struct {
	pos      uint8
	segments uint8
	blank    bool
}

// recordingDisplay keeps the last output
type recordingDisplay struct {
	last  shown
	count int
}

func (d *recordingDisplay) Show(pos uint8, segments uint8) {
	d.last = shown{pos: pos, segments: segments}
	d.count++
}

func (d *recordingDisplay) Blank() {
	d.last = shown{blank: true}
	d.count++
}

type countingPlayer struct {
	plays int
}

func (p *countingPlayer) Play() {
	p.plays++
}

// feed delivers bytes to the receiver as the UART interrupt would
func feed(r *Receiver, data []byte) {
	for _, b := range data {
		r.OnByte(b)
	}
}
