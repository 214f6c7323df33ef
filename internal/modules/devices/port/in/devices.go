package in

import (
	"context"

	"pdtrack/internal/modules/devices/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.DeviceOutput, error)
	Get(ctx context.Context, id string) (dto.DeviceOutput, error)
	Create(ctx context.Context, input dto.CreateInput) ([]dto.DeviceOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) ([]dto.DeviceOutput, error)
	Remove(ctx context.Context, id string) ([]dto.DeviceOutput, error)
	Summary(ctx context.Context) ([]dto.DeviceOutput, error)
}
