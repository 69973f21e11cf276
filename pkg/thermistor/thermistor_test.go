package thermistor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResistanceFromRawMidScale(t *testing.T) {
	p := DefaultParams()

	// Mid-scale on a 10-bit converter: divider is balanced, so the
	// thermistor resistance equals the series resistance (within the
	// rounding introduced by 1023 not being even).
	r, err := p.ResistanceFromRaw(511.5, 1023)
	require.NoError(t, err)
	assert.InDelta(t, p.SeriesResistance, r, 1e-9)
}

func TestResistanceFromRawFinitePositive(t *testing.T) {
	p := DefaultParams()

	for _, raw := range []float64{1, 100, 512, 900, 1022} {
		r, err := p.ResistanceFromRaw(raw, 1023)
		require.NoError(t, err, "raw=%v", raw)
		assert.False(t, math.IsInf(r, 0), "raw=%v", raw)
		assert.False(t, math.IsNaN(r), "raw=%v", raw)
		assert.Greater(t, r, 0.0, "raw=%v", raw)
	}
}

func TestResistanceFromRawFault(t *testing.T) {
	p := DefaultParams()

	for _, raw := range []float64{0, -1, 1023, 1024, 2000} {
		_, err := p.ResistanceFromRaw(raw, 1023)
		assert.ErrorIs(t, err, ErrSensorFault, "raw=%v", raw)
	}
}

func TestTemperatureAtNominal(t *testing.T) {
	p := DefaultParams()

	// R = R0 means T = T0 exactly.
	assert.InDelta(t, 25.0, p.Temperature(p.NominalResistance), 1e-9)
}

func TestTemperaturePlausibleRange(t *testing.T) {
	p := DefaultParams()

	// Sweep the raw range a 10K/B3950 part actually produces between
	// -40 and +125 degrees and check the result stays in that band.
	for raw := 40.0; raw <= 985.0; raw += 15 {
		r, err := p.ResistanceFromRaw(raw, 1023)
		require.NoError(t, err)
		temp := p.Temperature(r)
		assert.False(t, math.IsNaN(temp))
		assert.Greater(t, temp, -40.0, "raw=%v", raw)
		assert.Less(t, temp, 125.0, "raw=%v", raw)
	}
}

func TestTemperatureMonotonic(t *testing.T) {
	p := DefaultParams()

	// NTC: resistance falls as temperature rises.
	assert.Greater(t, p.Temperature(5000), p.Temperature(20000))
}
