package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instant loop: body takes zero time, sleeps are recorded instead of taken
func newTestLoop(interval int, fire func()) (*Loop, *[]time.Duration) {
	l := New(interval, fire, nil)
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }
	slept := &[]time.Duration{}
	l.sleep = func(d time.Duration) { *slept = append(*slept, d) }
	return l, slept
}

func TestZeroBodyKeepsExactPeriod(t *testing.T) {
	l, slept := newTestLoop(60, nil)

	for i := 0; i < 500; i++ {
		l.Step()
	}

	assert.EqualValues(t, 0, l.carry, "carry must stay zero under no-op cycles")
	require.Len(t, *slept, 500)
	for _, d := range *slept {
		assert.Equal(t, time.Second, d)
	}
}

func TestFiresOncePerInterval(t *testing.T) {
	fired := 0
	l, _ := newTestLoop(60, func() { fired++ })

	// 60 ticks elapse before the first fire, then one fire per 60 ticks
	for i := 0; i < 181; i++ {
		l.Step()
	}
	assert.Equal(t, 3, fired)
}

func TestLongBodyFoldsIntoElapsedAndSleep(t *testing.T) {
	l := New(60, nil, nil)
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }
	var slept []time.Duration
	l.sleep = func(d time.Duration) { slept = append(slept, d) }
	// a 1500ms loop body
	l.poll = func() { now = now.Add(1500 * time.Millisecond) }

	l.Step()

	// one extra whole second accounted, 500ms remainder carried
	assert.Equal(t, 2, l.elapsed)
	assert.EqualValues(t, 500, l.carry)
	require.Len(t, slept, 1)
	assert.Equal(t, 500*time.Millisecond, slept[0])

	// the remainder keeps shortening sleeps until body time consumes it
	l.poll = nil
	l.Step()
	assert.EqualValues(t, 500, l.carry, "carry persists until body time consumes it")
	assert.Equal(t, 500*time.Millisecond, slept[1])
}

func TestCarryStaysBelowOneSecond(t *testing.T) {
	l := New(10, nil, nil)
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }
	l.sleep = func(time.Duration) {}
	l.poll = func() { now = now.Add(3700 * time.Millisecond) }

	for i := 0; i < 50; i++ {
		l.Step()
		assert.Less(t, l.carry, int64(1000))
		assert.GreaterOrEqual(t, l.carry, int64(0))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	l, _ := newTestLoop(1, nil)
	ctx, cancel := context.WithCancel(context.Background())

	steps := 0
	l.poll = func() {
		steps++
		if steps == 5 {
			cancel()
		}
	}

	l.Run(ctx)
	assert.Equal(t, 5, steps)
}
