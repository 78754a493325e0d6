package protocol

// FifoBuffer is a circular byte buffer modelling a UART FIFO.
// It is not safe for concurrent use; callers serialize access.
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer and returns how many bytes fit
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		if !f.PutByte(b) {
			break
		}
		written++
	}
	return written
}

// PutByte appends one byte, reporting false when the buffer is full
func (f *FifoBuffer) PutByte(b byte) bool {
	nextWrite := (f.write + 1) % f.size
	if nextWrite == f.read {
		return false
	}
	f.buf[f.write] = b
	f.write = nextWrite
	return true
}

// Read reads up to len(data) bytes from the FIFO buffer
func (f *FifoBuffer) Read(data []byte) int {
	read := 0
	for i := range data {
		b, ok := f.GetByte()
		if !ok {
			break
		}
		data[i] = b
		read++
	}
	return read
}

// GetByte removes and returns the oldest byte
func (f *FifoBuffer) GetByte() (byte, bool) {
	if f.read == f.write {
		return 0, false
	}
	b := f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, true
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes available for writing
func (f *FifoBuffer) Free() int {
	return f.size - f.Available() - 1
}

// IsEmpty returns true if the buffer is empty
func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
