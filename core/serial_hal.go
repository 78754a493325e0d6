package core

// Transmitter is the UART transmit side used for acknowledgments
type Transmitter interface {
	// WriteByte loads one byte into the transmit register
	WriteByte(c byte) error

	// TxComplete reports, and clears, the transmit-complete condition
	TxComplete() bool
}
