package core

// Buzzer produces square-wave tones
type Buzzer interface {
	// Tone toggles the output toggles times, halfPeriodUS apart. It blocks until done.
	Tone(halfPeriodUS, toggles uint32)

	// Off silences the buzzer
	Off()
}

// Note is one tone segment of a melody
type Note struct {
	HalfPeriodUS uint32
	Toggles      uint32
}

// Melody is a note sequence played Repeat times
type Melody struct {
	Notes  []Note
	Repeat int
}

// DefaultMelody is the completion chime: a high and a low tone, three times
var DefaultMelody = Melody{
	Notes: []Note{
		{HalfPeriodUS: 1000, Toggles: 200},
		{HalfPeriodUS: 2000, Toggles: 200},
	},
	Repeat: 3,
}

// Player is invoked by the Loop when a sound trigger is pending
type Player interface {
	Play()
}

// MelodyPlayer plays a fixed melody on a Buzzer
type MelodyPlayer struct {
	buzzer Buzzer
	melody Melody
}

// NewMelodyPlayer creates a player for melody
func NewMelodyPlayer(b Buzzer, melody Melody) *MelodyPlayer {
	return &MelodyPlayer{buzzer: b, melody: melody}
}

// Play implements Player. It blocks for the length of the melody.
func (p *MelodyPlayer) Play() {
	for r := 0; r < p.melody.Repeat; r++ {
		for _, n := range p.melody.Notes {
			p.buzzer.Tone(n.HalfPeriodUS, n.Toggles)
		}
	}
	p.buzzer.Off()
}

// GPIOBuzzer bit-bangs a buzzer on a GPIO pin
type GPIOBuzzer struct {
	gpio      GPIODriver
	pin       GPIOPin
	activeLow bool
	delayUS   func(us uint32)
	level     bool
}

// NewGPIOBuzzer configures pin as an output and switches the buzzer off.
// delayUS is the busy-wait used between toggles.
func NewGPIOBuzzer(gpio GPIODriver, pin GPIOPin, activeLow bool, delayUS func(us uint32)) (*GPIOBuzzer, error) {
	if err := gpio.ConfigureOutput(pin); err != nil {
		return nil, err
	}
	b := &GPIOBuzzer{
		gpio:      gpio,
		pin:       pin,
		activeLow: activeLow,
		delayUS:   delayUS,
	}
	b.Off()
	return b, nil
}

// Tone implements Buzzer
func (b *GPIOBuzzer) Tone(halfPeriodUS, toggles uint32) {
	for i := uint32(0); i < toggles; i++ {
		b.level = !b.level
		_ = b.gpio.SetPin(b.pin, b.level)
		b.delayUS(halfPeriodUS)
	}
}

// Off implements Buzzer
func (b *GPIOBuzzer) Off() {
	b.level = b.activeLow
	_ = b.gpio.SetPin(b.pin, b.level)
}
