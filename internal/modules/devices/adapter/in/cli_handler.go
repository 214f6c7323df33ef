package in

import (
	"context"

	"pdtrack/internal/modules/devices/dto"
	devicesin "pdtrack/internal/modules/devices/port/in"
)

type CLIHandler struct {
	usecase devicesin.Usecase
}

func NewCLIHandler(usecase devicesin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.DeviceOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Show(ctx context.Context, id string) (dto.DeviceOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Add(ctx context.Context, name, deviceType string) ([]dto.DeviceOutput, error) {
	return h.usecase.Create(ctx, dto.CreateInput{Name: name, Type: deviceType})
}

func (h CLIHandler) Update(ctx context.Context, id, name, deviceType string) ([]dto.DeviceOutput, error) {
	return h.usecase.Update(ctx, dto.UpdateInput{ID: id, Name: name, Type: deviceType})
}

func (h CLIHandler) Remove(ctx context.Context, id string) ([]dto.DeviceOutput, error) {
	return h.usecase.Remove(ctx, id)
}

func (h CLIHandler) Summary(ctx context.Context) ([]dto.DeviceOutput, error) {
	return h.usecase.Summary(ctx)
}
