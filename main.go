// Fake Frog: a thermistor data logger. Samples analog channels on a fixed
// interval, timestamps readings from a battery-backed RTC, and appends them
// as CSV rows to numbered per-run files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/fakefrog/fakefrog/pkg/clock"
	"github.com/fakefrog/fakefrog/pkg/config"
	"github.com/fakefrog/fakefrog/pkg/console"
	"github.com/fakefrog/fakefrog/pkg/display"
	"github.com/fakefrog/fakefrog/pkg/output"
	consoleout "github.com/fakefrog/fakefrog/pkg/output/console"
	"github.com/fakefrog/fakefrog/pkg/output/csvfile"
	"github.com/fakefrog/fakefrog/pkg/scheduler"
	"github.com/fakefrog/fakefrog/pkg/sensor"
	"github.com/fakefrog/fakefrog/pkg/storage"
)

const version = "0.1.0"

// app owns every mutable piece of logger state; there are no package-level
// globals.
type app struct {
	cfg     config.Config
	logger  *logrus.Logger
	store   *storage.Store
	input   sensor.AnalogInput
	sampler *sensor.Sampler
	clk     clock.Clock
	outputs []output.Output
	screen  *display.Controller
	button  *display.Button
	port    io.ReadWriteCloser
}

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	a, err := setup(cfg)
	if err != nil {
		// initialization failures are fatal: exit nonzero so a
		// supervisor can notice, instead of hanging forever
		logrus.Fatalf("init: %v", err)
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := scheduler.New(cfg.IntervalSec, a.runCycle, a.pollInputs)
	loop.Run(ctx)

	a.logger.Info("shutting down")
}

func setup(cfg config.Config) (*app, error) {
	a := &app{cfg: cfg, logger: newLogger(cfg.LogLevel)}

	if cfg.Storage.Enabled {
		store, err := storage.Open(cfg.Storage)
		if err != nil {
			return nil, err
		}
		a.store = store
		// mirror status logging into the run's log file
		a.logger.SetOutput(io.MultiWriter(os.Stdout, store.LogFile))
		a.logger.Infof("log file %s, data file %s", store.LogPath(), store.DataPath())
	}

	clk, err := newClock(cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	a.clk = clk

	if cfg.Console.Enabled && cfg.Console.Port != "" {
		port, err := console.OpenPort(cfg.Console)
		if err != nil {
			a.close()
			return nil, err
		}
		a.port = port
	}
	if cfg.Console.ClockSet {
		if err := offerClockSet(a); err != nil {
			a.close()
			return nil, err
		}
	}

	input, err := newInput(cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	a.input = input
	a.sampler = sensor.NewSampler(input, sensor.ChannelsFromConfig(cfg), cfg.SampleCount, cfg.SampleDelay())

	if err := initOutputs(a); err != nil {
		a.close()
		return nil, err
	}

	if cfg.Display.Enabled {
		dev, err := display.NewHD44780(cfg.Display)
		if err != nil {
			a.close()
			return nil, err
		}
		a.screen = display.NewController(dev)
		if cfg.Display.Button != "" {
			btn, err := display.NewButton(cfg.Display.Button)
			if err != nil {
				a.close()
				return nil, err
			}
			a.button = btn
		}
	}

	now, err := a.clk.Now()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("read clock: %w", err)
	}
	a.logger.Infof("data logger started at %s, software version %s",
		csvfile.FormatTimestamp(now), version)

	return a, nil
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

func newClock(cfg config.Config) (clock.Clock, error) {
	switch cfg.RTC.Type {
	case "system":
		return clock.System{}, nil
	case "pcf8523":
		return clock.NewPCF8523(cfg)
	default:
		return nil, fmt.Errorf("unknown rtc type %q", cfg.RTC.Type)
	}
}

func newInput(cfg config.Config) (sensor.AnalogInput, error) {
	switch cfg.SensorType {
	case "simulation":
		return sensor.NewFake(1023, 2), nil
	case "real":
		return sensor.NewADS1115(cfg)
	default:
		return nil, fmt.Errorf("unknown sensor type %q", cfg.SensorType)
	}
}

func initOutputs(a *app) error {
	var data csvfile.SyncWriter
	if a.store != nil {
		data = a.store.DataFile
	}
	recorder, err := csvfile.New(data, len(a.sampler.Channels()))
	if err != nil {
		return err
	}
	a.outputs = append(a.outputs, recorder)

	if a.cfg.Console.Enabled {
		var w io.Writer
		if a.port != nil {
			w = a.port
		}
		a.outputs = append(a.outputs, consoleout.New(w))
	}
	return nil
}

// offerClockSet runs the interactive clock dialog over the serial console,
// or over stdin/stdout when no port is configured.
func offerClockSet(a *app) error {
	var rw io.ReadWriter = struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	if a.port != nil {
		rw = a.port
	}
	set, err := console.RunClockSetDialog(rw, a.clk)
	if err != nil {
		return fmt.Errorf("clock set: %w", err)
	}
	if set {
		a.logger.Info("clock updated from console")
	}
	return nil
}

// runCycle is the scheduler's fire callback: one timestamped sampling pass
// across all channels, published to every output. Cycle-level failures are
// logged and skipped; only init failures stop the logger.
func (a *app) runCycle() {
	now, err := a.clk.Now()
	if err != nil {
		a.logger.Errorf("read clock: %v", err)
		return
	}
	readings, err := a.sampler.SampleAll(now)
	if err != nil {
		a.logger.Warnf("sampling: %v", err)
		return
	}
	for _, out := range a.outputs {
		if err := out.Publish(readings); err != nil {
			a.logger.Errorf("publish: %v", err)
		}
	}
	if a.screen != nil {
		if err := a.screen.Update(readings, now); err != nil {
			a.logger.Errorf("display: %v", err)
		}
	}
}

// pollInputs is the scheduler's per-tick callback.
func (a *app) pollInputs() {
	if a.button != nil && a.button.Pressed() {
		if err := a.screen.CycleMode(); err != nil {
			a.logger.Errorf("display: %v", err)
		} else {
			a.logger.Debugf("display mode: %s", a.screen.Mode())
		}
	}
}

func (a *app) close() {
	for _, out := range a.outputs {
		out.Close()
	}
	if a.port != nil {
		a.port.Close()
	}
	if a.input != nil {
		a.input.Close()
	}
	if a.clk != nil {
		a.clk.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
