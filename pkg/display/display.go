// Package display drives the operator-facing character LCD. The controller
// owns nothing but the active mode and a cursor; every change is a
// whole-screen redraw.
package display

import (
	"fmt"
	"time"

	"github.com/fakefrog/fakefrog/pkg/sensor"
)

// Mode identifies one of the fixed display screens.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeInfo
	ModeClockEdit

	modeCount
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeInfo:
		return "info"
	case ModeClockEdit:
		return "clock-edit"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Device is a fixed character grid that accepts whole-screen redraws.
type Device interface {
	Clear() error
	Print(row int, text string) error
	Close() error
}

// Controller cycles among the display modes on operator input and renders
// the active one.
type Controller struct {
	dev    Device
	mode   Mode
	cursor int

	latest   []sensor.Reading
	latestAt time.Time
}

func NewController(dev Device) *Controller {
	return &Controller{dev: dev}
}

func (c *Controller) Mode() Mode { return c.mode }

// CycleMode advances to the next mode and redraws.
func (c *Controller) CycleMode() error {
	c.mode = (c.mode + 1) % modeCount
	c.cursor = 0
	return c.Render()
}

// Update records the latest readings; the info screen redraws if active.
func (c *Controller) Update(readings []sensor.Reading, at time.Time) error {
	c.latest = readings
	c.latestAt = at
	if c.mode == ModeInfo {
		return c.Render()
	}
	return nil
}

// Render performs the whole-screen redraw for the active mode.
func (c *Controller) Render() error {
	if err := c.dev.Clear(); err != nil {
		return err
	}
	switch c.mode {
	case ModeInfo:
		if err := c.dev.Print(0, c.latestAt.Format("15:04:05")); err != nil {
			return err
		}
		return c.dev.Print(1, temperatureLine(c.latest))
	case ModeClockEdit:
		if err := c.dev.Print(0, "Set clock:"); err != nil {
			return err
		}
		return c.dev.Print(1, fmt.Sprintf("field %d", c.cursor))
	default: // idle: blank screen
		return nil
	}
}

func temperatureLine(readings []sensor.Reading) string {
	if len(readings) == 0 {
		return "no reading"
	}
	if len(readings) == 1 {
		return fmt.Sprintf("%.2fC", readings[0].Temperature)
	}
	line := ""
	for i, r := range readings {
		if i > 0 {
			line += " "
		}
		line += fmt.Sprintf("%.1f", r.Temperature)
	}
	return line
}
