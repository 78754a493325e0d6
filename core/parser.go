package core

import "errors"

// DefaultAckPolls bounds the wait for transmit-complete after an acknowledgment.
// At 9600 baud one byte takes about 1 ms; this leaves ample margin.
const DefaultAckPolls = 200000

// ErrAckTimeout is returned when the acknowledgment byte never finished sending.
// The command itself has already been applied.
var ErrAckTimeout = errors.New("acknowledgment transmit timed out")

// Parser interprets completed frames
type Parser struct {
	st       *Shared
	registry *CommandRegistry
	tx       Transmitter

	// AckPolls is how many times TxComplete is polled before giving up.
	// Zero means DefaultAckPolls.
	AckPolls int
}

// NewParser creates a parser applying registry's commands to st and
// acknowledging them on tx
func NewParser(st *Shared, registry *CommandRegistry, tx Transmitter) *Parser {
	return &Parser{
		st:       st,
		registry: registry,
		tx:       tx,
	}
}

// Parse scans frame left to right and applies the first command whose token
// is found with its payload inside the frame. Later tokens are ignored.
// It returns the applied command, or nil if the frame held none.
func (p *Parser) Parse(frame []byte) (*Command, error) {
	n := len(frame)
	for i := 0; i < n; i++ {
		cmd, ok := p.registry.Lookup(frame[i])
		if !ok || i+cmd.PayloadLen >= n {
			continue
		}

		cmd.Handler(p.st, frame[i+1:i+1+cmd.PayloadLen])
		return cmd, p.ack(cmd.Token)
	}
	return nil, nil
}

// ack sends token and waits for the transmitter to drain
func (p *Parser) ack(token byte) error {
	if p.tx == nil {
		return nil
	}
	if err := p.tx.WriteByte(token); err != nil {
		return err
	}

	polls := p.AckPolls
	if polls <= 0 {
		polls = DefaultAckPolls
	}
	for i := 0; i < polls; i++ {
		if p.tx.TxComplete() {
			return nil
		}
	}
	return ErrAckTimeout
}
