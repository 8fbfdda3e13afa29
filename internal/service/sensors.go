package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/picolor-go/internal/domain"
	"github.com/jwulff/picolor-go/internal/sense"
	"github.com/jwulff/picolor-go/internal/storage"
)

// SensorService manages devices and the sensor entries recorded for them.
type SensorService struct {
	devices     *storage.EntityMap[domain.Device]
	history     *storage.EntityMap[domain.SensorEntry]
	calibration *storage.EntityMap[domain.SensorEntry]
	selection   *storage.EntityMap[domain.CalibrationSelection]

	historyView     *storage.DeviceView[domain.SensorEntry]
	calibrationView *storage.DeviceView[domain.SensorEntry]

	logger zerolog.Logger
}

// NewSensorService creates the service over the given store.
func NewSensorService(store storage.Store, logger zerolog.Logger) *SensorService {
	history := storage.NewEntityMap[domain.SensorEntry](store, storage.KeySensorHistory)
	calibration := storage.NewEntityMap[domain.SensorEntry](store, storage.KeyCalibrationData)
	return &SensorService{
		devices:         storage.NewEntityMap[domain.Device](store, storage.KeyDevices),
		history:         history,
		calibration:     calibration,
		selection:       storage.NewEntityMap[domain.CalibrationSelection](store, storage.KeySelectedCalibrationData),
		historyView:     storage.NewDeviceView(history),
		calibrationView: storage.NewDeviceView(calibration),
		logger:          logger,
	}
}

// AddDevice registers a device under its base URL.
func (s *SensorService) AddDevice(ctx context.Context, name, url string) (domain.Device, error) {
	device := domain.NewDevice(name, url)
	if err := s.devices.Upsert(ctx, device); err != nil {
		return domain.Device{}, err
	}
	return device, nil
}

// Devices returns all registered devices, oldest first.
func (s *SensorService) Devices(ctx context.Context) []domain.Device {
	devices := s.devices.List(ctx)
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].CreatedAt.Equal(devices[j].CreatedAt) {
			return devices[i].ID < devices[j].ID
		}
		return devices[i].CreatedAt.Before(devices[j].CreatedAt)
	})
	return devices
}

// Device returns the device with the given id.
func (s *SensorService) Device(ctx context.Context, id string) (domain.Device, error) {
	device, ok := s.devices.Get(ctx, id)
	if !ok {
		return domain.Device{}, storage.ErrNotFound{Resource: "device", ID: id}
	}
	return device, nil
}

// DeleteDevice removes the device and everything recorded for it. The steps
// run in order, history first, each as one write. A failing step stops the
// cascade and leaves the earlier deletions in place.
func (s *SensorService) DeleteDevice(ctx context.Context, id string) error {
	if _, err := s.Device(ctx, id); err != nil {
		return err
	}

	historyEntries, _ := s.historyView.For(ctx, id)
	historyIDs := entryIDs(historyEntries)
	if len(historyIDs) > 0 {
		if err := s.history.DeleteMany(ctx, historyIDs...); err != nil {
			s.logger.Warn().Err(err).Str("device", id).Msg("device delete left history behind")
			return fmt.Errorf("failed to delete sensor history: %w", err)
		}
	}

	calibrationEntries, _ := s.calibrationView.For(ctx, id)
	calibrationIDs := entryIDs(calibrationEntries)
	if len(calibrationIDs) > 0 {
		if err := s.calibration.DeleteMany(ctx, calibrationIDs...); err != nil {
			s.logger.Warn().Err(err).Str("device", id).Msg("device delete left calibration data behind")
			return fmt.Errorf("failed to delete calibration data: %w", err)
		}
	}

	if err := s.selection.DeleteMany(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("device", id).Msg("device delete left calibration selection behind")
		return fmt.Errorf("failed to delete calibration selection: %w", err)
	}

	return s.devices.DeleteMany(ctx, id)
}

func entryIDs(entries []domain.SensorEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

// Capture reads the device's sensors and stores the reading in the history
// log under the given name.
func (s *SensorService) Capture(ctx context.Context, deviceID, name string, location *domain.Geolocation) (domain.SensorEntry, error) {
	device, err := s.Device(ctx, deviceID)
	if err != nil {
		return domain.SensorEntry{}, err
	}
	entry, err := sense.NewClient(device.URL).Capture(ctx, deviceID, name, location)
	if err != nil {
		return domain.SensorEntry{}, err
	}
	if err := s.history.Upsert(ctx, entry); err != nil {
		return domain.SensorEntry{}, err
	}
	return entry, nil
}

// Calibrate reads the device's sensors, stores the reading as calibration
// data and selects it as the active reference.
func (s *SensorService) Calibrate(ctx context.Context, deviceID, name string, location *domain.Geolocation) (domain.SensorEntry, error) {
	device, err := s.Device(ctx, deviceID)
	if err != nil {
		return domain.SensorEntry{}, err
	}
	entry, err := sense.NewClient(device.URL).Capture(ctx, deviceID, name, location)
	if err != nil {
		return domain.SensorEntry{}, err
	}
	if err := s.calibration.Upsert(ctx, entry); err != nil {
		return domain.SensorEntry{}, err
	}
	return entry, s.SelectCalibration(ctx, deviceID, entry.ID)
}

// SelectCalibration marks the calibration entry as the device's reference.
func (s *SensorService) SelectCalibration(ctx context.Context, deviceID, entryID string) error {
	entry, ok := s.calibration.Get(ctx, entryID)
	if !ok || entry.DeviceID != deviceID {
		return storage.ErrNotFound{Resource: "calibration entry", ID: entryID}
	}
	return s.selection.Upsert(ctx, domain.CalibrationSelection{
		ID:                deviceID,
		CalibrationDataID: entryID,
		SelectedAt:        time.Now(),
	})
}

// SelectedCalibration resolves the device's active reference entry. A
// selection pointing at a deleted entry counts as none.
func (s *SensorService) SelectedCalibration(ctx context.Context, deviceID string) (domain.SensorEntry, bool) {
	selection, ok := s.selection.Get(ctx, deviceID)
	if !ok {
		return domain.SensorEntry{}, false
	}
	entry, ok := s.calibration.Get(ctx, selection.CalibrationDataID)
	if !ok || entry.DeviceID != deviceID {
		return domain.SensorEntry{}, false
	}
	return entry, true
}

// History returns the device's recorded entries, oldest first.
func (s *SensorService) History(ctx context.Context, deviceID string) []domain.SensorEntry {
	entries, _ := s.historyView.For(ctx, deviceID)
	return sortByTimestamp(entries)
}

// CalibrationEntries returns the device's calibration data, oldest first.
func (s *SensorService) CalibrationEntries(ctx context.Context, deviceID string) []domain.SensorEntry {
	entries, _ := s.calibrationView.For(ctx, deviceID)
	return sortByTimestamp(entries)
}

func sortByTimestamp(entries []domain.SensorEntry) []domain.SensorEntry {
	sorted := make([]domain.SensorEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// DeleteHistoryEntry removes one entry from the history log.
func (s *SensorService) DeleteHistoryEntry(ctx context.Context, id string) error {
	if _, ok := s.history.Get(ctx, id); !ok {
		return storage.ErrNotFound{Resource: "history entry", ID: id}
	}
	return s.history.DeleteMany(ctx, id)
}

// DeleteCalibrationEntry removes one calibration entry. A selection pointing
// at it is removed as well.
func (s *SensorService) DeleteCalibrationEntry(ctx context.Context, id string) error {
	entry, ok := s.calibration.Get(ctx, id)
	if !ok {
		return storage.ErrNotFound{Resource: "calibration entry", ID: id}
	}
	if err := s.calibration.DeleteMany(ctx, id); err != nil {
		return err
	}
	if selection, ok := s.selection.Get(ctx, entry.DeviceID); ok && selection.CalibrationDataID == id {
		return s.selection.DeleteMany(ctx, entry.DeviceID)
	}
	return nil
}
