package clock

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/fakefrog/fakefrog/pkg/config"
)

const (
	// Time registers start at seconds; seconds..years are 7 consecutive
	// BCD registers.
	regSeconds = 0x03

	// Bit 7 of the seconds register is the oscillator-stop flag: set when
	// the chip lost power and the time is not trustworthy.
	oscillatorStopBit = 0x80
)

// ErrOscillatorStopped reports that the RTC lost power since it was last set
// and its time cannot be trusted.
var ErrOscillatorStopped = errors.New("clock: oscillator stopped, time invalid")

// PCF8523 drives an NXP PCF8523 battery-backed RTC over I2C.
type PCF8523 struct {
	dev *i2c.Dev
	bus i2c.BusCloser
}

// NewPCF8523 opens the configured I2C bus and verifies the chip responds.
func NewPCF8523(cfg config.Config) (*PCF8523, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("open i2c: %w", err)
	}
	dev := &i2c.Dev{Addr: uint16(cfg.RTC.I2CAddress), Bus: bus}

	// probe: a single register read tells us the chip is present
	probe := make([]byte, 1)
	if err := dev.Tx([]byte{regSeconds}, probe); err != nil {
		bus.Close()
		return nil, fmt.Errorf("rtc probe: %w", err)
	}

	return &PCF8523{dev: dev, bus: bus}, nil
}

func (c *PCF8523) Close() error {
	if c.bus != nil {
		return c.bus.Close()
	}
	return nil
}

// Now reads the 7 time registers in one transaction and decodes them.
func (c *PCF8523) Now() (time.Time, error) {
	buf := make([]byte, 7)
	if err := c.dev.Tx([]byte{regSeconds}, buf); err != nil {
		return time.Time{}, fmt.Errorf("rtc read: %w", err)
	}
	if buf[0]&oscillatorStopBit != 0 {
		return time.Time{}, ErrOscillatorStopped
	}
	return decodeTime(buf), nil
}

// Set writes the time registers, clearing the oscillator-stop flag as a side
// effect of rewriting the seconds register.
func (c *PCF8523) Set(t time.Time) error {
	buf := append([]byte{regSeconds}, encodeTime(t)...)
	if err := c.dev.Tx(buf, nil); err != nil {
		return fmt.Errorf("rtc write: %w", err)
	}
	return nil
}

// decodeTime converts the seconds..years register block to a time.Time.
// The chip stores two-digit years; the 2000 epoch matches how it ships.
func decodeTime(buf []byte) time.Time {
	sec := fromBCD(buf[0] & 0x7F)
	min := fromBCD(buf[1] & 0x7F)
	hour := fromBCD(buf[2] & 0x3F)
	day := fromBCD(buf[3] & 0x3F)
	// buf[4] is the weekday, derivable from the date
	month := time.Month(fromBCD(buf[5] & 0x1F))
	year := 2000 + fromBCD(buf[6])
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

func encodeTime(t time.Time) []byte {
	return []byte{
		toBCD(t.Second()),
		toBCD(t.Minute()),
		toBCD(t.Hour()),
		toBCD(t.Day()),
		byte(t.Weekday()),
		toBCD(int(t.Month())),
		toBCD(t.Year() % 100),
	}
}

func toBCD(v int) byte {
	return byte(v/10<<4 | v%10)
}

func fromBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}
