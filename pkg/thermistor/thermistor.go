package thermistor

import (
	"errors"
	"fmt"
	"math"
)

// ErrSensorFault indicates a raw reading at or beyond the converter limits,
// i.e. an open or shorted sensor rather than a usable measurement.
var ErrSensorFault = errors.New("thermistor: sensor fault")

const kelvinOffset = 273.15

// Params describes one NTC thermistor and its voltage divider.
type Params struct {
	// SeriesResistance is the fixed divider resistor, in ohms.
	SeriesResistance float64 `json:"series_resistance"`
	// NominalResistance is R0, the resistance at NominalTemp, in ohms.
	NominalResistance float64 `json:"nominal_resistance"`
	// NominalTemp is the temperature of R0, in degrees Celsius.
	NominalTemp float64 `json:"nominal_temp"`
	// Beta is the B coefficient of the thermistor.
	Beta float64 `json:"beta"`
}

// DefaultParams returns the values for a common 10K NTC thermistor with a
// 10K series resistor.
func DefaultParams() Params {
	return Params{
		SeriesResistance:  10000,
		NominalResistance: 10000,
		NominalTemp:       25,
		Beta:              3950,
	}
}

// ResistanceFromRaw converts a mean raw ADC reading to the thermistor
// resistance in ohms using the voltage divider relation
// R = Rs / (FullScale/raw - 1). Readings at or above full scale, or at or
// below zero, would divide by zero (or produce a negative resistance) and are
// reported as a sensor fault instead.
func (p Params) ResistanceFromRaw(raw float64, fullScale int) (float64, error) {
	if raw <= 0 || raw >= float64(fullScale) {
		return 0, fmt.Errorf("%w: raw reading %.1f outside (0, %d)", ErrSensorFault, raw, fullScale)
	}
	return p.SeriesResistance / (float64(fullScale)/raw - 1), nil
}

// Temperature converts a resistance in ohms to degrees Celsius using the
// Beta-parameter equation: T = 1/(ln(R/R0)/B + 1/(T0+273.15)) - 273.15.
func (p Params) Temperature(resistance float64) float64 {
	return 1/(math.Log(resistance/p.NominalResistance)/p.Beta+1/(p.NominalTemp+kelvinOffset)) - kelvinOffset
}
