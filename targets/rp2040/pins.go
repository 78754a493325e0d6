//go:build rp2040 || rp2350

package main

import (
	"machine"

	"segmeter/core"
)

// Board wiring. The host link runs on UART0, the debug console on UART1.
const (
	hostTxPin  = machine.GPIO0
	hostRxPin  = machine.GPIO1
	debugTxPin = machine.GPIO20
	debugRxPin = machine.GPIO21

	// buzzerPin is PWM slice 7 channel B
	buzzerPin = machine.GPIO15
)

// segmentPins drive segments a-g and dp, active high (common cathode)
var segmentPins = [8]core.GPIOPin{2, 3, 4, 5, 6, 7, 8, 9}

// selectPins feed the 3-to-8 position decoder, least significant bit first
var selectPins = [3]core.GPIOPin{10, 11, 12}
