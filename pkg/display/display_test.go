package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakefrog/fakefrog/pkg/sensor"
)

type fakeDevice struct {
	clears int
	rows   map[int]string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{rows: make(map[int]string)}
}

func (f *fakeDevice) Clear() error {
	f.clears++
	f.rows = make(map[int]string)
	return nil
}

func (f *fakeDevice) Print(row int, text string) error {
	f.rows[row] = text
	return nil
}

func (f *fakeDevice) Close() error { return nil }

func TestCycleModeWraps(t *testing.T) {
	c := NewController(newFakeDevice())

	assert.Equal(t, ModeIdle, c.Mode())
	require.NoError(t, c.CycleMode())
	assert.Equal(t, ModeInfo, c.Mode())
	require.NoError(t, c.CycleMode())
	assert.Equal(t, ModeClockEdit, c.Mode())
	require.NoError(t, c.CycleMode())
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestIdleRendersBlank(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev)

	require.NoError(t, c.Render())
	assert.Equal(t, 1, dev.clears)
	assert.Empty(t, dev.rows)
}

func TestInfoShowsLatestReading(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev)
	require.NoError(t, c.CycleMode()) // -> info

	at := time.Date(2017, time.June, 1, 12, 30, 45, 0, time.UTC)
	err := c.Update([]sensor.Reading{{Channel: 0, Temperature: 24.954, Timestamp: at}}, at)
	require.NoError(t, err)

	assert.Equal(t, "12:30:45", dev.rows[0])
	assert.Equal(t, "24.95C", dev.rows[1])
}

func TestInfoMultiChannelLine(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev)
	require.NoError(t, c.CycleMode())

	at := time.Now()
	err := c.Update([]sensor.Reading{
		{Channel: 0, Temperature: 20.04},
		{Channel: 1, Temperature: -3.16},
	}, at)
	require.NoError(t, err)
	assert.Equal(t, "20.0 -3.2", dev.rows[1])
}

func TestUpdateDoesNotRedrawIdle(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev)

	require.NoError(t, c.Update(nil, time.Now()))
	assert.Equal(t, 0, dev.clears)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "idle", ModeIdle.String())
	assert.Equal(t, "info", ModeInfo.String())
	assert.Equal(t, "clock-edit", ModeClockEdit.String())
}
