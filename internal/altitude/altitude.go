// Package altitude computes relative height from barometric pressure.
package altitude

import (
	"math"

	"github.com/jwulff/picolor-go/internal/domain"
)

// Constants of the barometric formula. Inputs are assumed to be in the SI-ish
// units the sensor feed delivers (degrees C, hPa); no conversion is applied.
const (
	LapseRate   = -0.0065 // a, K/m
	GasConstant = 287.06  // R, J/(kg*K)
	Gravity     = 9.81    // g0, m/s^2
)

// DefaultFloorHeight is the assumed height of one building floor in meters.
const DefaultFloorHeight = 2.7

// HeightFrom computes the height of a reading relative to a calibration
// reference: h = (T1/a) * ((p/p1)^(-(a*R)/g0) - 1) + h1. Invalid pressure
// ratios propagate as NaN or Inf, uncaught.
func HeightFrom(reading domain.SensorData, reference domain.SensorEntry) float64 {
	t1 := reference.SensorData.Environmental.Temperature.Temperature
	p := reading.Environmental.Pressure
	p1 := reference.SensorData.Environmental.Pressure
	h1 := 0.0
	if reference.Height != nil {
		h1 = *reference.Height
	}
	return (t1/LapseRate)*(math.Pow(p/p1, -(LapseRate*GasConstant)/Gravity)-1) + h1
}

// FloorFor maps a relative height to a floor number given the height of one
// floor. Heights below the reference map to negative floors.
func FloorFor(height, floorHeight float64) int {
	if floorHeight == 0 {
		return 0
	}
	floor := math.Ceil(math.Abs(height) / floorHeight)
	if height < 0 {
		return -int(floor)
	}
	return int(floor)
}
