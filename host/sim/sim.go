// Package sim runs the display firmware against in-memory hardware so the
// host tooling can be exercised without a board.
package sim

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"segmeter/core"
	"segmeter/protocol"
)

// DefaultFifoSize matches a small UART hardware FIFO plus driver buffer
const DefaultFifoSize = 64

var (
	ErrRxOverrun = errors.New("simulated rx fifo overrun")
	ErrTxOverrun = errors.New("simulated tx fifo overrun")
)

type Option func(*Sim)

// WithClock drives the scan timer from clock
func WithClock(clock clockwork.Clock) Option {
	return func(s *Sim) {
		s.clock = clock
	}
}

// WithFifoSize sets the capacity of both UART FIFOs
func WithFifoSize(n int) Option {
	return func(s *Sim) {
		if n > 1 {
			s.fifoSize = n
		}
	}
}

// Sim is a simulated display board
type Sim struct {
	fw      *core.Firmware
	sched   *core.Scheduler
	display *Display
	buzzer  *Buzzer
	port    *hostPort

	clock    clockwork.Clock
	fifoSize int

	// mu guards both FIFOs
	mu sync.Mutex
	rx *protocol.FifoBuffer
	tx *protocol.FifoBuffer

	rxSignal chan struct{}
	txSignal chan struct{}
	wake     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once

	// now is the simulated timer counter, owned by the timer goroutine
	now uint32
}

// New builds a simulator with the firmware armed but not running
func New(opts ...Option) *Sim {
	s := &Sim{
		sched:    &core.Scheduler{},
		display:  &Display{},
		buzzer:   &Buzzer{},
		clock:    clockwork.NewRealClock(),
		fifoSize: DefaultFifoSize,
		rxSignal: make(chan struct{}, 1),
		txSignal: make(chan struct{}, 1),
		wake:     make(chan struct{}, 1),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rx = protocol.NewFifoBuffer(s.fifoSize)
	s.tx = protocol.NewFifoBuffer(s.fifoSize)
	s.port = &hostPort{s: s, closed: make(chan struct{})}

	s.fw = core.NewFirmware(core.Hardware{
		Display: s.display,
		Tx:      uartTx{s: s},
		Player:  core.NewMelodyPlayer(s.buzzer, core.DefaultMelody),
	})
	s.display.cursor = s.fw.Scanner.Cursor
	s.fw.Start(s.sched, s.now)

	return s
}

// Run drives the receive interrupt, the scan timer interrupt and the main
// loop until ctx is cancelled.
func (s *Sim) Run(ctx context.Context) error {
	defer s.stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.rxInterrupt(ctx) })
	g.Go(func() error { return s.timerInterrupt(ctx) })
	g.Go(func() error { return s.mainLoop(ctx) })

	log.Debug().Msg("simulated board running")
	err := g.Wait()
	log.Debug().Err(err).Msg("simulated board stopped")
	return err
}

func (s *Sim) rxInterrupt(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.rxSignal:
		}
		s.deliverRx()
	}
}

// deliverRx hands every byte waiting in the rx FIFO to the receiver
func (s *Sim) deliverRx() {
	for {
		s.mu.Lock()
		b, ok := s.rx.GetByte()
		s.mu.Unlock()
		if !ok {
			return
		}
		core.RunISR(func() { s.fw.Receiver.OnByte(b) })
		notify(s.wake)
	}
}

func (s *Sim) timerInterrupt(ctx context.Context) error {
	ticker := s.clock.NewTicker(core.ScanPeriodUS * time.Microsecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			s.now += core.ScanPeriod
			s.sched.Dispatch(s.now)
		}
	}
}

func (s *Sim) mainLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.wake:
			s.fw.Loop.Poll()
		}
	}
}

// stop runs once every goroutine has returned
func (s *Sim) stop() {
	s.stopOnce.Do(func() {
		s.fw.Stop(s.sched)
		close(s.stopped)
	})
}

// HostPort returns the host end of the simulated serial link. Closing it
// is permanent.
func (s *Sim) HostPort() io.ReadWriteCloser {
	return s.port
}

// Snapshot returns the glyphs currently latched on the four positions
func (s *Sim) Snapshot() [core.NumPositions]uint8 {
	return s.display.Glyphs()
}

// Text renders the current display
func (s *Sim) Text() string {
	return Text(s.Snapshot())
}

// Completion returns the firmware's completion value
func (s *Sim) Completion() uint8 {
	return s.fw.Shared.Completion()
}

func (s *Sim) Firmware() *core.Firmware {
	return s.fw
}

func (s *Sim) Display() *Display {
	return s.display
}

func (s *Sim) Buzzer() *Buzzer {
	return s.buzzer
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// uartTx is the firmware side of the transmit FIFO
type uartTx struct {
	s *Sim
}

func (u uartTx) WriteByte(c byte) error {
	u.s.mu.Lock()
	ok := u.s.tx.PutByte(c)
	u.s.mu.Unlock()
	if !ok {
		return ErrTxOverrun
	}
	notify(u.s.txSignal)
	return nil
}

// TxComplete is always true: the simulated line drains instantly
func (u uartTx) TxComplete() bool {
	return true
}

// hostPort is the host side of the link
type hostPort struct {
	s      *Sim
	closed chan struct{}
	once   sync.Once
}

func (p *hostPort) Read(b []byte) (int, error) {
	for {
		p.s.mu.Lock()
		n := p.s.tx.Read(b)
		p.s.mu.Unlock()
		if n > 0 {
			return n, nil
		}

		select {
		case <-p.s.txSignal:
		case <-p.closed:
			return 0, io.ErrClosedPipe
		case <-p.s.stopped:
			return 0, io.ErrClosedPipe
		}
	}
}

func (p *hostPort) Write(b []byte) (int, error) {
	select {
	case <-p.closed:
		return 0, io.ErrClosedPipe
	default:
	}

	p.s.mu.Lock()
	n := p.s.rx.Write(b)
	p.s.mu.Unlock()
	notify(p.s.rxSignal)

	if n < len(b) {
		return n, ErrRxOverrun
	}
	return n, nil
}

func (p *hostPort) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}
