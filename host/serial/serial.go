package serial

import (
	"io"

	"segmeter/protocol"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - The in-process board simulator
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM6")
	Device string

	// Baud rate; the board's UART runs at protocol.Baud
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the configuration matching the board firmware
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        protocol.Baud,
		ReadTimeout: 100,
	}
}
