package sensor

import (
	"fmt"
	"time"

	"github.com/fakefrog/fakefrog/pkg/thermistor"
)

// Reading is one converted measurement for one channel. It is constructed
// once per cycle and never mutated afterwards.
type Reading struct {
	Channel     int       `json:"channel"`
	Raw         float64   `json:"raw"` // mean of the averaging window
	Resistance  float64   `json:"resistance"`
	Temperature float64   `json:"temperature"` // degrees Celsius
	Timestamp   time.Time `json:"timestamp"`
}

// AnalogInput abstracts one raw-sample read per (channel, call). Raw values
// are in [0, FullScale].
type AnalogInput interface {
	ReadRaw(channel int) (int, error)
	FullScale() int
	Close() error
}

// Channel maps a logical sensor index to its calibration constants.
type Channel struct {
	Index      int
	Thermistor thermistor.Params
}

// Sampler produces temperature readings by averaging repeated raw samples
// and converting the mean through the channel's thermistor params.
type Sampler struct {
	input    AnalogInput
	channels []Channel
	samples  int
	delay    time.Duration
	sleep    func(time.Duration)
}

// NewSampler builds a sampler over the given input. samples must be >= 1;
// delay is the pause between consecutive raw samples of one pass.
func NewSampler(input AnalogInput, channels []Channel, samples int, delay time.Duration) *Sampler {
	if samples < 1 {
		samples = 1
	}
	return &Sampler{
		input:    input,
		channels: channels,
		samples:  samples,
		delay:    delay,
		sleep:    time.Sleep,
	}
}

// Channels returns the configured channels in sampling order.
func (s *Sampler) Channels() []Channel { return s.channels }

// Sample takes one averaged reading from a single channel. The accumulator
// is local to the pass, so repeated calls are independent.
func (s *Sampler) Sample(ch Channel, at time.Time) (Reading, error) {
	var sum float64
	for i := 0; i < s.samples; i++ {
		if i > 0 && s.delay > 0 {
			s.sleep(s.delay)
		}
		raw, err := s.input.ReadRaw(ch.Index)
		if err != nil {
			return Reading{}, fmt.Errorf("read channel %d: %w", ch.Index, err)
		}
		sum += float64(raw)
	}
	mean := sum / float64(s.samples)

	res, err := ch.Thermistor.ResistanceFromRaw(mean, s.input.FullScale())
	if err != nil {
		return Reading{}, fmt.Errorf("channel %d: %w", ch.Index, err)
	}

	return Reading{
		Channel:     ch.Index,
		Raw:         mean,
		Resistance:  res,
		Temperature: ch.Thermistor.Temperature(res),
		Timestamp:   at,
	}, nil
}

// SampleAll reads every channel sequentially, stamping all readings with the
// same cycle timestamp.
func (s *Sampler) SampleAll(at time.Time) ([]Reading, error) {
	out := make([]Reading, 0, len(s.channels))
	for _, ch := range s.channels {
		r, err := s.Sample(ch, at)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
