package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fakefrog/fakefrog/pkg/thermistor"
)

type ChannelConfig struct {
	Channel    int               `json:"channel"`
	Enabled    bool              `json:"enabled"`
	Thermistor thermistor.Params `json:"thermistor"`
}

type StorageConfig struct {
	Enabled      bool   `json:"enabled"`
	Dir          string `json:"dir"`
	MaxLogFiles  int    `json:"max_log_files"`
	MaxDataFiles int    `json:"max_data_files"`
}

type ConsoleConfig struct {
	Enabled bool   `json:"enabled"`
	Port    string `json:"port,omitempty"` // serial device; empty means stdout
	Baud    int    `json:"baud,omitempty"`
	// ClockSet offers the interactive clock-setting dialog at startup.
	ClockSet bool `json:"clock_set,omitempty"`
}

type DisplayConfig struct {
	Enabled bool   `json:"enabled"`
	RS      string `json:"rs,omitempty"`
	EN      string `json:"en,omitempty"`
	DB4     string `json:"db4,omitempty"`
	DB5     string `json:"db5,omitempty"`
	DB6     string `json:"db6,omitempty"`
	DB7     string `json:"db7,omitempty"`
	Button  string `json:"button,omitempty"` // mode-cycle button input
	Columns int    `json:"columns,omitempty"`
	Rows    int    `json:"rows,omitempty"`
}

type RTCConfig struct {
	Type       string `json:"type"` // pcf8523|system
	I2CAddress int    `json:"i2c_address,omitempty"`
}

type Config struct {
	I2CBus        string          `json:"i2c_bus"`
	ADCAddress    int             `json:"adc_address"`
	ADCSampleRate int             `json:"adc_sample_rate"`
	SensorType    string          `json:"sensor_type"` // real|simulation
	IntervalSec   int             `json:"interval_sec"`
	SampleCount   int             `json:"sample_count"`
	SampleDelayMs int             `json:"sample_delay_ms"`
	Channels      []ChannelConfig `json:"channels"`
	Storage       StorageConfig   `json:"storage"`
	Console       ConsoleConfig   `json:"console"`
	Display       DisplayConfig   `json:"display"`
	RTC           RTCConfig       `json:"rtc"`
	LogLevel      string          `json:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		I2CBus:        "1",
		ADCAddress:    0x48,
		ADCSampleRate: 128,
		SensorType:    "real",
		IntervalSec:   60,
		SampleCount:   10,
		SampleDelayMs: 10,
		Channels: []ChannelConfig{
			{Channel: 0, Enabled: true, Thermistor: thermistor.DefaultParams()},
		},
		Storage: StorageConfig{
			Enabled:      true,
			Dir:          "data",
			MaxLogFiles:  1000,
			MaxDataFiles: 1000,
		},
		Console:  ConsoleConfig{Enabled: true, Baud: 9600},
		Display:  DisplayConfig{Columns: 16, Rows: 2},
		RTC:      RTCConfig{Type: "pcf8523", I2CAddress: 0x68},
		LogLevel: "info",
	}
}

// SampleDelay returns the inter-sample delay as a duration.
func (c Config) SampleDelay() time.Duration {
	return time.Duration(c.SampleDelayMs) * time.Millisecond
}

// EnabledChannels returns the enabled channel configs in declaration order.
func (c Config) EnabledChannels() []ChannelConfig {
	out := make([]ChannelConfig, 0, len(c.Channels))
	for _, ch := range c.Channels {
		if ch.Enabled {
			out = append(out, ch)
		}
	}
	return out
}

// Validate checks the cross-field constraints that would otherwise only
// surface as misbehavior at runtime.
func (c Config) Validate() error {
	if c.IntervalSec <= 0 {
		return errors.New("interval_sec must be > 0")
	}
	if c.SampleCount <= 0 {
		return errors.New("sample_count must be > 0")
	}
	if c.SampleDelayMs < 0 {
		return errors.New("sample_delay_ms must be >= 0")
	}
	if len(c.EnabledChannels()) == 0 {
		return errors.New("at least one channel must be enabled")
	}
	// The whole sampling pass has to finish well inside one recording
	// interval, or the loop can never keep its period.
	latency := len(c.EnabledChannels()) * c.SampleCount * c.SampleDelayMs
	if latency >= c.IntervalSec*1000/2 {
		return fmt.Errorf("sampling latency %dms too close to interval %ds", latency, c.IntervalSec)
	}
	return nil
}

// LoadFromFlags loads configuration from a JSON file (optional) and flags.
// Flags override values present in the JSON file.
func LoadFromFlags() (Config, error) {
	cfgPath := flag.String("config", "", "Path to JSON config file")
	flagI2CBus := flag.String("i2c-bus", "", "I2C bus (e.g., '1' -> /dev/i2c-1)")
	flagADCAddr := flag.String("adc-address", "", "ADC I2C address (decimal or 0x hex)")
	flagSensorType := flag.String("sensor-type", "", "sensor type: real|simulation")
	flagInterval := flag.Int("interval", -1, "Seconds between readings")
	flagSamples := flag.Int("samples", -1, "Raw samples averaged per reading")
	flagSampleDelay := flag.Int("sample-delay-ms", -1, "Milliseconds between raw samples")
	flagChannels := flag.String("channels", "", "Comma-separated channels to enable e.g. 0,1")
	flagDataDir := flag.String("data-dir", "", "Directory for log and data files")
	flagLogLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")

	flag.Parse()

	cfg := DefaultConfig()

	if *cfgPath != "" {
		b, err := os.ReadFile(*cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if *flagI2CBus != "" {
		cfg.I2CBus = *flagI2CBus
	}
	if *flagADCAddr != "" {
		v, err := parseIntOrHex(*flagADCAddr)
		if err != nil {
			return cfg, fmt.Errorf("adc-address: %w", err)
		}
		cfg.ADCAddress = v
	}
	if *flagSensorType != "" {
		cfg.SensorType = *flagSensorType
	}
	if *flagInterval != -1 {
		cfg.IntervalSec = *flagInterval
	}
	if *flagSamples != -1 {
		cfg.SampleCount = *flagSamples
	}
	if *flagSampleDelay != -1 {
		cfg.SampleDelayMs = *flagSampleDelay
	}
	if *flagChannels != "" {
		enabled, err := parseChannels(*flagChannels)
		if err != nil {
			return cfg, err
		}
		applyChannelSelection(&cfg, enabled)
	}
	if *flagDataDir != "" {
		cfg.Storage.Dir = *flagDataDir
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// applyChannelSelection enables exactly the listed channels, creating entries
// with default thermistor params for channels the file did not mention.
func applyChannelSelection(cfg *Config, enabled []int) {
	want := make(map[int]bool, len(enabled))
	for _, ch := range enabled {
		want[ch] = true
	}
	for i := range cfg.Channels {
		cfg.Channels[i].Enabled = want[cfg.Channels[i].Channel]
		delete(want, cfg.Channels[i].Channel)
	}
	for ch := range want {
		cfg.Channels = append(cfg.Channels, ChannelConfig{
			Channel:    ch,
			Enabled:    true,
			Thermistor: thermistor.DefaultParams(),
		})
	}
}

func parseIntOrHex(s string) (int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 0)
		return int(v), err
	}
	v, err := strconv.Atoi(s)
	return v, err
}

func parseChannels(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t == "" {
			continue
		}
		v, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("invalid channel '%s': %w", t, err)
		}
		out = append(out, v)
	}
	return out, nil
}
