package sensor

import (
	"fmt"
	"math/rand"
	"sync"
)

// Fake is an in-memory AnalogInput for simulation mode and tests. Each
// channel returns a fixed base value, optionally with uniform jitter.
type Fake struct {
	fullScale int
	jitter    int
	values    map[int]int
	mu        sync.Mutex
}

// NewFake builds a fake input. Channels not given a value via SetValue read
// as mid-scale.
func NewFake(fullScale, jitter int) *Fake {
	return &Fake{
		fullScale: fullScale,
		jitter:    jitter,
		values:    make(map[int]int),
	}
}

// SetValue fixes the base raw value returned for a channel.
func (f *Fake) SetValue(channel, raw int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[channel] = raw
}

func (f *Fake) ReadRaw(channel int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if channel < 0 {
		return 0, fmt.Errorf("invalid channel %d", channel)
	}
	raw, ok := f.values[channel]
	if !ok {
		raw = f.fullScale / 2
	}
	if f.jitter > 0 {
		raw += rand.Intn(2*f.jitter+1) - f.jitter
	}
	if raw < 0 {
		raw = 0
	}
	if raw > f.fullScale {
		raw = f.fullScale
	}
	return raw, nil
}

func (f *Fake) FullScale() int { return f.fullScale }

func (f *Fake) Close() error { return nil }
