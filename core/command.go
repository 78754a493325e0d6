package core

import (
	"errors"
	"sync"

	"segmeter/protocol"
)

// CommandHandler applies a command to the shared state.
// payload holds exactly PayloadLen bytes taken from the frame after the token.
type CommandHandler func(st *Shared, payload []byte)

// Command is a single-byte command token understood by the parser
type Command struct {
	Token      byte
	Name       string
	PayloadLen int
	Handler    CommandHandler
}

// ErrTokenInUse is returned when a token is registered twice under different names
var ErrTokenInUse = errors.New("command token already registered")

// CommandRegistry maps token bytes to commands
type CommandRegistry struct {
	mu       sync.RWMutex
	commands [256]*Command
	count    int
}

// NewCommandRegistry creates an empty command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{}
}

// NewDefaultRegistry returns the registry holding the percent and sound commands
func NewDefaultRegistry() *CommandRegistry {
	r := NewCommandRegistry()
	_ = r.Register(protocol.TokenPercent, "set_percent", 1, handleSetPercent)
	_ = r.Register(protocol.TokenSound, "play_sound", 0, handlePlaySound)
	return r
}

// Register adds a command. Registering the same token and name again is a no-op.
func (r *CommandRegistry) Register(token byte, name string, payloadLen int, handler CommandHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.commands[token]; existing != nil {
		if existing.Name == name {
			return nil
		}
		return ErrTokenInUse
	}

	r.commands[token] = &Command{
		Token:      token,
		Name:       name,
		PayloadLen: payloadLen,
		Handler:    handler,
	}
	r.count++
	return nil
}

// Lookup retrieves the command for a token
func (r *CommandRegistry) Lookup(token byte) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd := r.commands[token]
	return cmd, cmd != nil
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Dictionary lists the registered commands, one "token name payload=N" per line
func (r *CommandRegistry) Dictionary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dict := ""
	for i := range r.commands {
		cmd := r.commands[i]
		if cmd == nil {
			continue
		}
		dict += string(rune(cmd.Token)) + " " + cmd.Name + " payload=" + utoa(uint32(cmd.PayloadLen)) + "\n"
	}
	return dict
}

func handleSetPercent(st *Shared, payload []byte) {
	st.SetCompletion(payload[0])
}

func handlePlaySound(st *Shared, _ []byte) {
	st.triggerSound()
}
