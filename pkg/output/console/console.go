// Package console mirrors readings to a line-oriented text sink, either
// stdout or a serial port.
package console

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fakefrog/fakefrog/pkg/output"
	"github.com/fakefrog/fakefrog/pkg/sensor"
)

type ConsoleOutput struct {
	w io.Writer
}

// New mirrors readings to the given writer; stdout when nil.
func New(w io.Writer) output.Output {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) Publish(readings []sensor.Reading) error {
	for _, r := range readings {
		_, err := fmt.Fprintf(c.w, "%s channel=%d raw=%.1f resistance=%.1f temperature=%.2f\n",
			r.Timestamp.Format(time.RFC3339), r.Channel, r.Raw, r.Resistance, r.Temperature)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
