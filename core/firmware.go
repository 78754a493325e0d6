package core

// Hardware collects the board peripherals the firmware drives
type Hardware struct {
	Display DisplayDriver
	Tx      Transmitter
	Player  Player
}

// Firmware wires the receiver, parser, scanner and main loop around one Shared state
type Firmware struct {
	Shared   *Shared
	Registry *CommandRegistry
	Receiver *Receiver
	Parser   *Parser
	Scanner  *Scanner
	Loop     *Loop

	display   DisplayDriver
	scanTimer *Timer
}

// NewFirmware builds the firmware with the default command set
func NewFirmware(hw Hardware) *Firmware {
	st := NewShared()
	registry := NewDefaultRegistry()
	parser := NewParser(st, registry, hw.Tx)

	return &Firmware{
		Shared:   st,
		Registry: registry,
		Receiver: NewReceiver(st),
		Parser:   parser,
		Scanner:  NewScanner(st, hw.Display),
		Loop:     NewLoop(st, parser, hw.Player),
		display:  hw.Display,
	}
}

// Start arms the scan timer on sched
func (f *Firmware) Start(sched *Scheduler, now uint32) *Timer {
	f.scanTimer = f.Scanner.Timer(now)
	sched.Schedule(f.scanTimer)
	return f.scanTimer
}

// Stop removes the scan timer from sched and darkens the display
func (f *Firmware) Stop(sched *Scheduler) {
	if f.scanTimer == nil {
		return
	}
	sched.Cancel(f.scanTimer)
	f.scanTimer = nil
	if f.display != nil {
		f.display.Blank()
	}
}
