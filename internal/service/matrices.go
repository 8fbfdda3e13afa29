// Package service ties the storage layer, the device clients and the remote
// sync together behind the operations the screens expose.
package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jwulff/picolor-go/internal/domain"
	"github.com/jwulff/picolor-go/internal/pi"
	"github.com/jwulff/picolor-go/internal/storage"
)

// MatrixService manages matrix configs and pushes edits to the Pi when the
// update settings allow it.
type MatrixService struct {
	matrixes *storage.EntityMap[domain.MatrixConfig]
	settings *storage.Slot[domain.UpdateSettings]
	syncer   *pi.Syncer
	logger   zerolog.Logger
}

// NewMatrixService creates the service over the given store. syncer may be
// nil, in which case edits are never pushed.
func NewMatrixService(store storage.Store, syncer *pi.Syncer, logger zerolog.Logger) *MatrixService {
	return &MatrixService{
		matrixes: storage.NewEntityMap[domain.MatrixConfig](store, storage.KeyMatrixes),
		settings: storage.NewSlot(store, storage.KeyUpdateSettings, func() domain.UpdateSettings {
			return domain.UpdateSettings{}
		}),
		syncer: syncer,
		logger: logger,
	}
}

// List returns all matrix configs, oldest first.
func (s *MatrixService) List(ctx context.Context) []domain.MatrixConfig {
	configs := s.matrixes.List(ctx)
	sort.Slice(configs, func(i, j int) bool {
		if configs[i].Created.Equal(configs[j].Created) {
			return configs[i].ID < configs[j].ID
		}
		return configs[i].Created.Before(configs[j].Created)
	})
	return configs
}

// Get returns the config with the given id.
func (s *MatrixService) Get(ctx context.Context, id string) (domain.MatrixConfig, error) {
	config, ok := s.matrixes.Get(ctx, id)
	if !ok {
		return domain.MatrixConfig{}, storage.ErrNotFound{Resource: "matrix", ID: id}
	}
	return config, nil
}

// Create stores a new empty matrix sized for the Sense HAT.
func (s *MatrixService) Create(ctx context.Context, name string) (domain.MatrixConfig, error) {
	config := domain.NewMatrixConfig(name, domain.SenseHatSize, domain.SenseHatSize)
	if err := s.matrixes.Upsert(ctx, config); err != nil {
		return domain.MatrixConfig{}, err
	}
	return config, nil
}

// Update persists the config and, when updates are enabled and a URL is
// configured, schedules a debounced push to the Pi.
func (s *MatrixService) Update(ctx context.Context, config domain.MatrixConfig) error {
	if err := s.matrixes.Upsert(ctx, config); err != nil {
		return err
	}
	settings := s.settings.Get(ctx)
	if s.syncer != nil && settings.EnableUpdatePi && settings.URL != "" {
		s.syncer.Schedule(settings.URL, config, nil)
	}
	return nil
}

// Copy duplicates the config under a fresh id and stores it.
func (s *MatrixService) Copy(ctx context.Context, id string) (domain.MatrixConfig, error) {
	config, err := s.Get(ctx, id)
	if err != nil {
		return domain.MatrixConfig{}, err
	}
	dup := config.Copy()
	if err := s.matrixes.Upsert(ctx, dup); err != nil {
		return domain.MatrixConfig{}, err
	}
	return dup, nil
}

// Fill paints every pixel of the matrix with the given color.
func (s *MatrixService) Fill(ctx context.Context, id string, color domain.RGB) (domain.MatrixConfig, error) {
	config, err := s.Get(ctx, id)
	if err != nil {
		return domain.MatrixConfig{}, err
	}
	filled := config.Fill(color)
	if err := s.Update(ctx, filled); err != nil {
		return domain.MatrixConfig{}, err
	}
	return filled, nil
}

// Clear unsets every pixel of the matrix.
func (s *MatrixService) Clear(ctx context.Context, id string) (domain.MatrixConfig, error) {
	config, err := s.Get(ctx, id)
	if err != nil {
		return domain.MatrixConfig{}, err
	}
	cleared := config.Cleared()
	if err := s.Update(ctx, cleared); err != nil {
		return domain.MatrixConfig{}, err
	}
	return cleared, nil
}

// Delete removes the config and drops any queued push for it.
func (s *MatrixService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.matrixes.DeleteMany(ctx, id); err != nil {
		return err
	}
	if s.syncer != nil {
		s.syncer.CancelPending(id)
	}
	return nil
}

// Settings returns the current update settings.
func (s *MatrixService) Settings(ctx context.Context) domain.UpdateSettings {
	return s.settings.Get(ctx)
}

// SetSettings persists the update settings.
func (s *MatrixService) SetSettings(ctx context.Context, settings domain.UpdateSettings) error {
	return s.settings.Set(ctx, settings)
}

// SubscribeMatrixes registers fn to run after every successful matrix write.
func (s *MatrixService) SubscribeMatrixes(fn func(map[string]domain.MatrixConfig)) func() {
	return s.matrixes.Subscribe(fn)
}
