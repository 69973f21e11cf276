// Package csvfile appends readings to the run's CSV data file, one row per
// cycle, flushed after every row so records survive power loss.
package csvfile

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fakefrog/fakefrog/pkg/output"
	"github.com/fakefrog/fakefrog/pkg/sensor"
)

// timestampLayout is the fixed-width, zero-padded stamp used in every row.
const timestampLayout = "2006-01-02T15:04:05"

// SyncWriter is the slice of *os.File the recorder needs: append plus an
// explicit flush to media.
type SyncWriter interface {
	io.Writer
	Sync() error
}

// CSVOutput writes one comma-separated row per cycle. A nil writer is the
// degraded-write condition: rows are silently skipped so the control loop
// stays alive with a dead storage backend.
type CSVOutput struct {
	w SyncWriter
}

// New writes the CSV header for the given channel count and returns the
// recorder. With a nil writer it returns a recorder that skips everything.
func New(w SyncWriter, channels int) (output.Output, error) {
	o := &CSVOutput{w: w}
	if w == nil {
		return o, nil
	}
	if _, err := io.WriteString(w, Header(channels)+"\n"); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.Sync(); err != nil {
		return nil, fmt.Errorf("flush csv header: %w", err)
	}
	return o, nil
}

// Header returns the CSV header row for the given channel count.
func Header(channels int) string {
	if channels <= 1 {
		return "Timestamp,Temperature"
	}
	cols := make([]string, 0, channels+1)
	cols = append(cols, "Timestamp")
	for i := 1; i <= channels; i++ {
		cols = append(cols, fmt.Sprintf("Temp%d", i))
	}
	return strings.Join(cols, ",")
}

// FormatTimestamp renders a timestamp as YYYY-MM-DDTHH:MM:SS with all fields
// zero-padded to fixed width.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// FormatRow renders one data row: the cycle timestamp followed by every
// temperature with two decimals.
func FormatRow(readings []sensor.Reading) string {
	fields := make([]string, 0, len(readings)+1)
	fields = append(fields, FormatTimestamp(readings[0].Timestamp))
	for _, r := range readings {
		fields = append(fields, fmt.Sprintf("%.2f", r.Temperature))
	}
	return strings.Join(fields, ",")
}

func (o *CSVOutput) Publish(readings []sensor.Reading) error {
	if o.w == nil || len(readings) == 0 {
		return nil
	}
	if _, err := io.WriteString(o.w, FormatRow(readings)+"\n"); err != nil {
		return fmt.Errorf("append csv row: %w", err)
	}
	if err := o.w.Sync(); err != nil {
		return fmt.Errorf("flush csv row: %w", err)
	}
	return nil
}

func (o *CSVOutput) Close() error { return nil }
