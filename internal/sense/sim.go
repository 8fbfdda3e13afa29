package sense

import (
	"math"
	"math/rand"
	"time"

	"github.com/jwulff/picolor-go/internal/domain"
)

// Simulated produces a reading with plausible random values in every block,
// the same shape a real device reports.
func Simulated() domain.SensorData {
	return domain.SensorData{
		Timestamp: time.Now(),
		Environmental: domain.EnvironmentalData{
			Temperature: domain.TemperatureData{
				Temperature: rand.Float64() * 100,
				Humidity:    rand.Float64() * 100,
				Pressure:    rand.Float64() * 100,
			},
			Humidity: rand.Float64() * 100,
			Pressure: rand.Float64() * 100,
		},
		Imu: domain.ImuData{
			Orientation: domain.OrientationData{
				Radians: randomOrientation(),
				Degrees: randomOrientation(),
			},
			Compass: domain.CompassData{
				Compass: rand.Float64() * 100,
				Raw:     rand.Float64() * 100,
			},
			Gyroscope: domain.GyroscopeData{
				Gyroscope: randomVector(),
				Raw:       randomVector(),
			},
			Accelerometer: domain.AccelerometerData{
				Accelerometer: randomVector(),
				Raw:           randomVector(),
			},
		},
	}
}

func randomOrientation() domain.Orientation {
	return domain.Orientation{
		Pitch: rand.Float64() * math.Pi,
		Roll:  rand.Float64() * math.Pi,
		Yaw:   rand.Float64() * math.Pi,
	}
}

func randomVector() domain.Vector {
	return domain.Vector{
		X: rand.Float64() * 100,
		Y: rand.Float64() * 100,
		Z: rand.Float64() * 100,
	}
}
