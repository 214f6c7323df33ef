package service

import (
	"context"
	"sync"

	"pdtrack/internal/modules/devices/domain"
	devicesout "pdtrack/internal/modules/devices/port/out"
)

// DeviceService owns the device-list snapshot and enforces the
// invalidate-and-refresh contract: every mutation refetches the list from the
// server before the caller hears about success. There is no optimistic local
// patching anywhere.
type DeviceService struct {
	gateway devicesout.DeviceGateway

	mu       sync.Mutex
	snapshot []domain.Device
}

func NewDeviceService(gateway devicesout.DeviceGateway) *DeviceService {
	return &DeviceService{gateway: gateway}
}

func (s *DeviceService) Refresh(ctx context.Context) ([]domain.Device, error) {
	devices, err := s.gateway.List(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.snapshot = devices
	s.mu.Unlock()
	return devices, nil
}

func (s *DeviceService) Get(ctx context.Context, id string) (domain.Device, error) {
	return s.gateway.Get(ctx, id)
}

func (s *DeviceService) Create(ctx context.Context, name, deviceType, userID string) ([]domain.Device, error) {
	if _, err := s.gateway.Create(ctx, name, deviceType, userID); err != nil {
		return nil, err
	}
	return s.Refresh(ctx)
}

func (s *DeviceService) Update(ctx context.Context, id string, fields map[string]string) ([]domain.Device, error) {
	if err := s.gateway.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Refresh(ctx)
}

func (s *DeviceService) Remove(ctx context.Context, id string) ([]domain.Device, error) {
	if err := s.gateway.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.Refresh(ctx)
}

func (s *DeviceService) Summary(ctx context.Context, userID string) ([]domain.Device, error) {
	return s.gateway.Summary(ctx, userID)
}

// Snapshot returns the last refreshed list without touching the network.
func (s *DeviceService) Snapshot() []domain.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}
