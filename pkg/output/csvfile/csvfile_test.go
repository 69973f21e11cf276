package csvfile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakefrog/fakefrog/pkg/sensor"
)

type fakeFile struct {
	strings.Builder
	syncs int
}

func (f *fakeFile) Sync() error {
	f.syncs++
	return nil
}

func TestFormatTimestampFixedWidth(t *testing.T) {
	// tiny components must still come out zero-padded to full width
	ts := time.Date(5, time.January, 3, 2, 4, 6, 0, time.UTC)
	got := FormatTimestamp(ts)
	assert.Equal(t, "0005-01-03T02:04:06", got)
	assert.Len(t, got, 19)

	ts = time.Date(2017, time.December, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2017-12-31T23:59:59", FormatTimestamp(ts))
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Timestamp,Temperature", Header(1))
	assert.Equal(t, "Timestamp,Temp1,Temp2,Temp3,Temp4", Header(4))
}

func TestPublishWritesAndFlushes(t *testing.T) {
	f := &fakeFile{}
	out, err := New(f, 1)
	require.NoError(t, err)

	ts := time.Date(2017, time.June, 1, 12, 0, 0, 0, time.UTC)
	err = out.Publish([]sensor.Reading{{Channel: 0, Temperature: 21.346, Timestamp: ts}})
	require.NoError(t, err)

	assert.Equal(t, "Timestamp,Temperature\n2017-06-01T12:00:00,21.35\n", f.String())
	// header and row each get their own flush
	assert.Equal(t, 2, f.syncs)
}

func TestPublishMultiChannelRow(t *testing.T) {
	f := &fakeFile{}
	out, err := New(f, 2)
	require.NoError(t, err)

	ts := time.Date(2017, time.June, 1, 12, 0, 0, 0, time.UTC)
	err = out.Publish([]sensor.Reading{
		{Channel: 0, Temperature: 20.0, Timestamp: ts},
		{Channel: 1, Temperature: -3.134, Timestamp: ts},
	})
	require.NoError(t, err)

	assert.Contains(t, f.String(), "2017-06-01T12:00:00,20.00,-3.13\n")
}

func TestDegradedWriteSkipsSilently(t *testing.T) {
	out, err := New(nil, 1)
	require.NoError(t, err)

	err = out.Publish([]sensor.Reading{{Temperature: 20, Timestamp: time.Now()}})
	assert.NoError(t, err)
}

func TestPublishEmptyNoop(t *testing.T) {
	f := &fakeFile{}
	out, err := New(f, 1)
	require.NoError(t, err)
	before := f.String()

	require.NoError(t, out.Publish(nil))
	assert.Equal(t, before, f.String())
}
