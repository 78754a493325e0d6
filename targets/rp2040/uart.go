//go:build rp2040 || rp2350

package main

import (
	"device/rp"
	"machine"
	"time"

	"segmeter/core"
	"segmeter/protocol"
)

// hostUART is the link to the host at protocol.Baud
var hostUART = machine.UART0

// InitHostUART configures UART0 for the host link
func InitHostUART() error {
	return hostUART.Configure(machine.UARTConfig{
		BaudRate: protocol.Baud,
		TX:       hostTxPin,
		RX:       hostRxPin,
	})
}

// uartTx implements core.Transmitter on a hardware UART
type uartTx struct {
	uart *machine.UART
}

// WriteByte loads c into the transmit FIFO
func (u uartTx) WriteByte(c byte) error {
	return u.uart.WriteByte(c)
}

// TxComplete reports whether the transmitter has shifted out every byte
func (u uartTx) TxComplete() bool {
	return !u.uart.Bus.UARTFR.HasBits(rp.UART0_UARTFR_BUSY)
}

// uartReaderLoop hands every received byte to rx as the receive interrupt would
func uartReaderLoop(rx *core.Receiver) {
	for {
		for hostUART.Buffered() > 0 {
			b, err := hostUART.ReadByte()
			if err != nil {
				break
			}
			core.RunISR(func() { rx.OnByte(b) })
		}
		// Yield to avoid a busy loop
		time.Sleep(100 * time.Microsecond)
	}
}
