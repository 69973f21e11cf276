package sensor

import "github.com/fakefrog/fakefrog/pkg/config"

// ChannelsFromConfig extracts the enabled channels from the config in
// declaration order, carrying their thermistor calibration.
func ChannelsFromConfig(cfg config.Config) []Channel {
	out := make([]Channel, 0, len(cfg.Channels))
	for _, c := range cfg.EnabledChannels() {
		out = append(out, Channel{Index: c.Channel, Thermistor: c.Thermistor})
	}
	return out
}
