package console

import (
	"bytes"
	"testing"
	"time"

	"github.com/fakefrog/fakefrog/pkg/sensor"
)

func TestConsolePublish(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	ts := time.Date(2017, 6, 1, 12, 0, 0, 0, time.UTC)
	readings := []sensor.Reading{{
		Channel:     0,
		Raw:         512,
		Resistance:  10019.6,
		Temperature: 24.95,
		Timestamp:   ts,
	}}
	if err := c.Publish(readings); err != nil {
		t.Fatalf("publish: %v", err)
	}
	want := "2017-06-01T12:00:00Z channel=0 raw=512.0 resistance=10019.6 temperature=24.95\n"
	if buf.String() != want {
		t.Fatalf("console output mismatch:\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestConsolePublishMultiple(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	ts := time.Date(2017, 6, 1, 12, 0, 0, 0, time.UTC)
	readings := []sensor.Reading{
		{Channel: 0, Raw: 400, Temperature: 30.1, Timestamp: ts},
		{Channel: 1, Raw: 600, Temperature: 19.7, Timestamp: ts},
	}
	if err := c.Publish(readings); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got := bytes.Count(buf.Bytes(), []byte("\n")); got != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", got, buf.String())
	}
}
