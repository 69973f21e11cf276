package display

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Button is a polled, pulled-up momentary input used to cycle display modes.
type Button struct {
	pin  gpio.PinIn
	last gpio.Level
}

func NewButton(name string) (*Button, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("display: no such pin %q", name)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("display: button pin %q: %w", name, err)
	}
	return &Button{pin: p, last: gpio.High}, nil
}

// Pressed reports a high-to-low transition since the previous poll.
func (b *Button) Pressed() bool {
	l := b.pin.Read()
	pressed := b.last == gpio.High && l == gpio.Low
	b.last = l
	return pressed
}
