// Package scheduler runs the logger's control loop: a nominal one-second
// tick that fires the sample+record pair every interval, feeding measured
// loop-body time back into the sleep budget so the long-run period stays
// accurate.
package scheduler

import (
	"context"
	"time"
)

// Loop is the drift-corrected periodic timer. elapsed counts whole seconds
// since the last fire; carry holds the sub-second remainder in milliseconds
// and is always folded back below 1000.
type Loop struct {
	interval int // seconds between fires
	elapsed  int
	carry    int64

	fire func()
	poll func()

	now   func() time.Time
	sleep func(time.Duration)
}

// New builds a loop firing every intervalSec seconds. fire runs the
// sample+record pair; poll runs once per tick for input/display upkeep.
// Either may be nil.
func New(intervalSec int, fire, poll func()) *Loop {
	return &Loop{
		interval: intervalSec,
		fire:     fire,
		poll:     poll,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Run ticks until the context is cancelled. The loop itself has no other
// exit: stopping the logger is the caller's decision.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		l.Step()
	}
}

// Step executes one tick:
//
//  1. note the monotonic loop-start time
//  2. fire once elapsed reaches the interval, resetting it first
//  3. run per-tick work
//  4. fold the measured body time into carry; every whole second of
//     overrun becomes an extra elapsed second
//  5. count the nominal tick and sleep the remainder of its 1000ms
func (l *Loop) Step() {
	start := l.now()

	if l.elapsed >= l.interval {
		l.elapsed = 0
		if l.fire != nil {
			l.fire()
		}
	}

	if l.poll != nil {
		l.poll()
	}

	l.carry += l.now().Sub(start).Milliseconds()
	for l.carry >= 1000 {
		l.carry -= 1000
		l.elapsed++
	}

	l.elapsed++
	l.sleep(time.Duration(1000-l.carry) * time.Millisecond)
}
