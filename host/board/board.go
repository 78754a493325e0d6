// Package board talks to the display board over its serial link.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"segmeter/protocol"
)

var (
	// ErrNoAck is returned when every attempt went unacknowledged
	ErrNoAck = errors.New("board did not acknowledge")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("board connection closed")

	// ErrUnsendablePercent is returned for a percentage whose payload byte
	// would terminate the frame on the board
	ErrUnsendablePercent = errors.New("percentage collides with the frame terminator")

	// ErrNoCommand is returned by Send for a frame the board would ignore
	ErrNoCommand = errors.New("frame carries no command")
)

// Board sends commands to the display board and waits for acknowledgments
type Board struct {
	port io.ReadWriteCloser
	cfg  Config

	writeMu sync.Mutex
	acks    chan byte

	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a board client on port and starts its reader
func New(port io.ReadWriteCloser, opts ...Option) *Board {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Board{
		port:     port,
		cfg:      cfg,
		acks:     make(chan byte, 16),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}

	go b.readLoop()

	return b
}

// SetPercent shows p (clamped to 0-100) on the display
func (b *Board) SetPercent(ctx context.Context, p int) error {
	frame, ok := protocol.EncodePercent(p)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnsendablePercent, p)
	}
	return b.Send(ctx, frame)
}

// PlaySound triggers the buzzer melody
func (b *Board) PlaySound(ctx context.Context) error {
	return b.Send(ctx, protocol.EncodeSound())
}

// Send writes frame and waits for the acknowledgment the board sends for it,
// retrying up to the configured number of attempts.
func (b *Board) Send(ctx context.Context, frame []byte) error {
	want := protocol.AckFor(frame)
	if want == 0 {
		return ErrNoCommand
	}

	var lastErr error
	for attempt := 1; attempt <= b.cfg.Retries; attempt++ {
		if attempt > 1 {
			if err := b.sleep(ctx, b.cfg.RetryDelay); err != nil {
				return err
			}
		}

		err := b.attempt(ctx, frame, want)
		if err == nil {
			log.Debug().Str("ack", string(want)).Int("attempt", attempt).Msg("board acknowledged")
			return nil
		}
		if errors.Is(err, ErrClosed) || ctx.Err() != nil {
			return err
		}

		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Int("retries", b.cfg.Retries).
			Msg("board command not acknowledged")
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrNoAck, b.cfg.Retries, lastErr)
}

func (b *Board) attempt(ctx context.Context, frame []byte, want byte) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	b.drainAcks()

	if _, err := b.port.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	log.Debug().Hex("frame", frame).Msg("frame sent")

	return b.waitForAck(ctx, want)
}

// waitForAck consumes bytes until want arrives or the timeout expires.
// Other bytes are logged and skipped.
func (b *Board) waitForAck(ctx context.Context, want byte) error {
	timer := b.cfg.Clock.NewTimer(b.cfg.AckTimeout)
	defer timer.Stop()

	for {
		select {
		case got := <-b.acks:
			if got == want {
				return nil
			}
			log.Debug().Uint8("byte", got).Msg("ignoring unexpected byte from board")

		case <-timer.Chan():
			return fmt.Errorf("ack %q timeout after %v", want, b.cfg.AckTimeout)

		case <-ctx.Done():
			return ctx.Err()

		case <-b.stopChan:
			return ErrClosed
		}
	}
}

func (b *Board) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-b.cfg.Clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stopChan:
		return ErrClosed
	}
}

// drainAcks drops stale bytes left over from an earlier attempt
func (b *Board) drainAcks() {
	for {
		select {
		case <-b.acks:
		default:
			return
		}
	}
}

// readLoop forwards every byte read from the port to the ack channel
func (b *Board) readLoop() {
	defer close(b.doneChan)

	buffer := make([]byte, 64)

	for {
		select {
		case <-b.stopChan:
			return
		default:
		}

		n, err := b.port.Read(buffer)
		for _, c := range buffer[:n] {
			select {
			case b.acks <- c:
			default:
				// Channel full: drop this byte. Send drains stale bytes before each write
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				select {
				case <-b.stopChan:
					return
				case <-time.After(10 * time.Millisecond):
				}
				continue
			}
			log.Debug().Err(err).Msg("board read loop stopped")
			return
		}
	}
}

// Close stops the reader and closes the port
func (b *Board) Close() error {
	var err error
	b.stopOnce.Do(func() {
		close(b.stopChan)
		if b.port != nil {
			err = b.port.Close()
		}
		<-b.doneChan
	})
	return err
}
