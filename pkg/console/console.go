// Package console talks to the operator over a line-oriented text console,
// usually a serial port. Its one interactive job is setting the hardware
// clock at startup.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/fakefrog/fakefrog/pkg/clock"
	"github.com/fakefrog/fakefrog/pkg/config"
)

// ParseError describes one rejected input field.
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("console: bad %s %q: %s", e.Field, e.Value, e.Reason)
}

// OpenPort opens the configured serial device for console I/O.
func OpenPort(cfg config.ConsoleConfig) (io.ReadWriteCloser, error) {
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	return port, nil
}

type field struct {
	name     string
	prompt   string
	min, max int
}

var clockFields = []field{
	{"year", "Year (YYYY)", 1970, 2099},
	{"month", "Month (MM)", 1, 12},
	{"day", "Day (DD)", 1, 31},
	{"hour", "Hour (HH)", 0, 23},
	{"minute", "Minute (MM)", 0, 59},
	{"second", "Second (SS)", 0, 59},
}

// RunClockSetDialog offers to set the clock over rw. It reads one line per
// field, validates ranges, and only touches the clock when every field
// parsed. Returns whether the clock was set.
func RunClockSetDialog(rw io.ReadWriter, clk clock.Clock) (bool, error) {
	r := bufio.NewReader(rw)

	fmt.Fprint(rw, "Set clock? (y/n): ")
	answer, err := readLine(r)
	if err != nil {
		return false, err
	}
	if !strings.EqualFold(answer, "y") {
		return false, nil
	}

	values := make([]int, len(clockFields))
	for i, f := range clockFields {
		fmt.Fprintf(rw, "%s: ", f.prompt)
		line, err := readLine(r)
		if err != nil {
			return false, err
		}
		v, err := parseField(f, line)
		if err != nil {
			return false, err
		}
		values[i] = v
	}

	t := time.Date(values[0], time.Month(values[1]), values[2],
		values[3], values[4], values[5], 0, time.UTC)
	if err := clk.Set(t); err != nil {
		return false, fmt.Errorf("set clock: %w", err)
	}
	fmt.Fprintf(rw, "Clock set to %s.\n", t.Format("2006-01-02T15:04:05"))
	return true, nil
}

func parseField(f field, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParseError{Field: f.name, Value: raw, Reason: "not a number"}
	}
	if v < f.min || v > f.max {
		return 0, &ParseError{
			Field:  f.name,
			Value:  raw,
			Reason: fmt.Sprintf("out of range [%d, %d]", f.min, f.max),
		}
	}
	return v, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read console: %w", err)
	}
	return strings.TrimSpace(line), nil
}
