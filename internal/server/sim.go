package server

import (
	"context"

	"github.com/jwulff/picolor-go/internal/domain"
	"github.com/jwulff/picolor-go/internal/sense"
)

// SimProvider serves simulated readings, for running the API without a
// Sense HAT attached.
type SimProvider struct{}

// Read returns a fresh simulated reading.
func (SimProvider) Read(ctx context.Context) (domain.SensorData, error) {
	return sense.Simulated(), nil
}

var _ Provider = SimProvider{}
