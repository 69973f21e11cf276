package display

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/fakefrog/fakefrog/pkg/config"
)

const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x06 // increment, no shift
	cmdDisplayOn   = 0x0C // display on, cursor off
	cmdFunctionSet = 0x28 // 4-bit, 2 lines, 5x8 font
	cmdSetDDRAM    = 0x80
)

// row start addresses for the common 16x2 controller layout
var rowOffsets = [...]byte{0x00, 0x40}

// HD44780 drives a character LCD through the classic 6-wire 4-bit interface
// (RS, EN, DB4..DB7).
type HD44780 struct {
	rs, en gpio.PinOut
	db     [4]gpio.PinOut

	columns int
	rows    int
}

// NewHD44780 resolves the configured pins and runs the controller's 4-bit
// initialization sequence.
func NewHD44780(cfg config.DisplayConfig) (*HD44780, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	names := []string{cfg.RS, cfg.EN, cfg.DB4, cfg.DB5, cfg.DB6, cfg.DB7}
	pins := make([]gpio.PinOut, len(names))
	for i, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("display: no such pin %q", name)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("display: init pin %q: %w", name, err)
		}
		pins[i] = p
	}

	d := &HD44780{
		rs:      pins[0],
		en:      pins[1],
		db:      [4]gpio.PinOut{pins[2], pins[3], pins[4], pins[5]},
		columns: cfg.Columns,
		rows:    cfg.Rows,
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init is the datasheet power-on sequence for 4-bit operation.
func (d *HD44780) init() error {
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := d.writeNibble(0x03); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := d.writeNibble(0x02); err != nil {
		return err
	}

	for _, cmd := range []byte{cmdFunctionSet, cmdDisplayOn, cmdClear, cmdEntryMode} {
		if err := d.command(cmd); err != nil {
			return err
		}
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

func (d *HD44780) Clear() error {
	if err := d.command(cmdClear); err != nil {
		return err
	}
	// the clear command is the slow one
	time.Sleep(2 * time.Millisecond)
	return nil
}

// Print writes text starting at column 0 of the given row, truncated to the
// display width.
func (d *HD44780) Print(row int, text string) error {
	if row < 0 || row >= d.rows || row >= len(rowOffsets) {
		return fmt.Errorf("display: row %d out of range", row)
	}
	if err := d.command(cmdSetDDRAM | rowOffsets[row]); err != nil {
		return err
	}
	if len(text) > d.columns {
		text = text[:d.columns]
	}
	for i := 0; i < len(text); i++ {
		if err := d.writeByte(text[i], gpio.High); err != nil {
			return err
		}
	}
	return nil
}

func (d *HD44780) Close() error {
	if err := d.Clear(); err != nil {
		return err
	}
	return d.rs.Out(gpio.Low)
}

func (d *HD44780) command(b byte) error {
	return d.writeByte(b, gpio.Low)
}

func (d *HD44780) writeByte(b byte, rs gpio.Level) error {
	if err := d.rs.Out(rs); err != nil {
		return err
	}
	if err := d.writeNibble(b >> 4); err != nil {
		return err
	}
	return d.writeNibble(b & 0x0F)
}

// writeNibble puts 4 bits on the data lines and pulses EN.
func (d *HD44780) writeNibble(n byte) error {
	for i := 0; i < 4; i++ {
		level := gpio.Low
		if n&(1<<i) != 0 {
			level = gpio.High
		}
		if err := d.db[i].Out(level); err != nil {
			return err
		}
	}
	if err := d.en.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(time.Microsecond)
	if err := d.en.Out(gpio.Low); err != nil {
		return err
	}
	// command execution time
	time.Sleep(50 * time.Microsecond)
	return nil
}
