package clock

import (
	"errors"
	"time"
)

// Clock supplies wall-clock timestamps for readings. Implementations are
// expected to survive power loss (battery-backed RTC) or to delegate to the
// host (simulation mode).
type Clock interface {
	Now() (time.Time, error)
	Set(t time.Time) error
	Close() error
}

// System wraps the host clock for simulation mode.
type System struct{}

func (System) Now() (time.Time, error) { return time.Now(), nil }

func (System) Set(time.Time) error {
	return errors.New("clock: system clock is read-only")
}

func (System) Close() error { return nil }
