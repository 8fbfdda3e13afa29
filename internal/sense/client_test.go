package sense

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/picolor-go/internal/domain"
)

func TestFetchSensors(t *testing.T) {
	reading := domain.SensorData{
		Timestamp: time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
		Environmental: domain.EnvironmentalData{
			Temperature: domain.TemperatureData{Temperature: 21.5, Humidity: 44.0, Pressure: 1013.0},
			Humidity:    44.2,
			Pressure:    1013.25,
		},
	}

	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(reading))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.FetchSensors(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/sensors", path)
	assert.True(t, reading.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, reading.Environmental, got.Environmental)
	assert.Equal(t, reading.Imu, got.Imu)
}

func TestFetchSensorsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sensors offline", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchSensors(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "sensors offline")
}

func TestFetchSensorsTestURL(t *testing.T) {
	client := NewClient(TestURL)

	got, err := client.FetchSensors(context.Background())
	require.NoError(t, err)

	assert.False(t, got.Timestamp.IsZero())
	assert.GreaterOrEqual(t, got.Environmental.Pressure, 0.0)
	assert.LessOrEqual(t, got.Environmental.Pressure, 100.0)
}

func TestCapture(t *testing.T) {
	taken := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(domain.SensorData{Timestamp: taken}))
	}))
	defer server.Close()

	location := &domain.Geolocation{Latitude: 52.52, Longitude: 13.405}
	client := NewClient(server.URL)

	entry, err := client.Capture(context.Background(), "device-1", "hallway", location)
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "device-1", entry.DeviceID)
	assert.Equal(t, "hallway", entry.Name)
	assert.True(t, taken.Equal(entry.SensorData.Timestamp))
	assert.Equal(t, location, entry.Location)
	assert.Nil(t, entry.Height)
}

func TestCaptureFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Capture(context.Background(), "device-1", "hallway", nil)
	assert.Error(t, err)
}
