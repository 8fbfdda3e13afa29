package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vector is a three-axis sensor sample.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Orientation holds pitch/roll/yaw angles.
type Orientation struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
	Yaw   float64 `json:"yaw"`
}

// OrientationData carries the fused orientation in both units.
type OrientationData struct {
	Radians Orientation `json:"radians"`
	Degrees Orientation `json:"degrees"`
}

// CompassData is the fused and raw magnetometer heading.
type CompassData struct {
	Compass float64 `json:"compass"`
	Raw     float64 `json:"raw"`
}

// GyroscopeData is the fused and raw gyroscope sample.
type GyroscopeData struct {
	Gyroscope Vector `json:"gyroscope"`
	Raw       Vector `json:"raw"`
}

// AccelerometerData is the fused and raw accelerometer sample.
type AccelerometerData struct {
	Accelerometer Vector `json:"accelerometer"`
	Raw           Vector `json:"raw"`
}

// ImuData groups the inertial sensors.
type ImuData struct {
	Orientation   OrientationData   `json:"orientation"`
	Compass       CompassData       `json:"compass"`
	Gyroscope     GyroscopeData     `json:"gyroscope"`
	Accelerometer AccelerometerData `json:"accelerometer"`
}

// TemperatureData is the environmental block as reported by the temperature
// sensor, which also exposes humidity and pressure readings.
type TemperatureData struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
}

// EnvironmentalData groups temperature, humidity and pressure.
type EnvironmentalData struct {
	Temperature TemperatureData `json:"temperature"`
	Humidity    float64         `json:"humidity"`
	Pressure    float64         `json:"pressure"`
}

// SensorData is one full reading snapshot from a device.
type SensorData struct {
	Timestamp     time.Time         `json:"timestamp"`
	Environmental EnvironmentalData `json:"environmental"`
	Imu           ImuData           `json:"imu"`
}

// Geolocation is an optional position attached to a sensor entry.
type Geolocation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
	Accuracy  float64  `json:"accuracy"`
}

// SensorEntry is a named, stored reading belonging to a device. The same
// shape backs both the history log and the calibration reference store.
type SensorEntry struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Height     *float64     `json:"height"`
	DeviceID   string       `json:"deviceId"`
	Timestamp  time.Time    `json:"timestamp"`
	SensorData SensorData   `json:"sensorData"`
	Location   *Geolocation `json:"location"`
}

// NewSensorEntry wraps a reading into a stored entry for the given device.
func NewSensorEntry(deviceID, name string, data SensorData, location *Geolocation) SensorEntry {
	return SensorEntry{
		ID:         uuid.NewString(),
		Name:       name,
		DeviceID:   deviceID,
		Timestamp:  time.Now(),
		SensorData: data,
		Location:   location,
	}
}

// EntityID implements storage.Entity.
func (e SensorEntry) EntityID() string {
	return e.ID
}

// DeviceRef implements storage.DeviceEntity.
func (e SensorEntry) DeviceRef() string {
	return e.DeviceID
}

// CalibrationSelection records which calibration entry is active for a
// device. Its id is the device id, so each device has at most one selection.
type CalibrationSelection struct {
	ID                string    `json:"id"`
	CalibrationDataID string    `json:"calibrationDataId"`
	SelectedAt        time.Time `json:"selectedAt"`
}

// EntityID implements storage.Entity.
func (s CalibrationSelection) EntityID() string {
	return s.ID
}
