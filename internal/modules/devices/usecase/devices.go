package usecase

import (
	"context"
	"strings"

	"pdtrack/internal/modules/devices/domain"
	"pdtrack/internal/modules/devices/dto"
	devicesin "pdtrack/internal/modules/devices/port/in"
	"pdtrack/internal/modules/devices/service"
	sessionin "pdtrack/internal/modules/session/port/in"
	apperrors "pdtrack/internal/platform/errors"
)

type Interactor struct {
	svc     *service.DeviceService
	session sessionin.Usecase
}

func NewInteractor(svc *service.DeviceService, session sessionin.Usecase) devicesin.Usecase {
	return &Interactor{svc: svc, session: session}
}

func (i *Interactor) List(ctx context.Context) ([]dto.DeviceOutput, error) {
	devices, err := i.svc.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(devices), nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.DeviceOutput, error) {
	if strings.TrimSpace(id) == "" {
		return dto.DeviceOutput{}, &apperrors.ValidationError{Field: "id", Reason: "is required"}
	}
	device, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.DeviceOutput{}, err
	}
	return toOutput(device), nil
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) ([]dto.DeviceOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &apperrors.ValidationError{Field: "name", Reason: "is required"}
	}
	deviceType := strings.TrimSpace(input.Type)
	if deviceType == "" {
		deviceType = "default"
	}
	devices, err := i.svc.Create(ctx, name, deviceType, i.session.Current(ctx).UserID)
	if err != nil {
		return nil, err
	}
	return toOutputs(devices), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) ([]dto.DeviceOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, &apperrors.ValidationError{Field: "id", Reason: "is required"}
	}
	fields := map[string]string{}
	if v := strings.TrimSpace(input.Name); v != "" {
		fields["name"] = v
	}
	if v := strings.TrimSpace(input.Type); v != "" {
		fields["device_type"] = v
	}
	if len(fields) == 0 {
		return nil, &apperrors.ValidationError{Field: "update", Reason: "needs at least one field"}
	}
	devices, err := i.svc.Update(ctx, input.ID, fields)
	if err != nil {
		return nil, err
	}
	return toOutputs(devices), nil
}

func (i *Interactor) Remove(ctx context.Context, id string) ([]dto.DeviceOutput, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &apperrors.ValidationError{Field: "id", Reason: "is required"}
	}
	devices, err := i.svc.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOutputs(devices), nil
}

func (i *Interactor) Summary(ctx context.Context) ([]dto.DeviceOutput, error) {
	current := i.session.Current(ctx)
	if current.UserID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	devices, err := i.svc.Summary(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	return toOutputs(devices), nil
}

func toOutput(d domain.Device) dto.DeviceOutput {
	return dto.DeviceOutput{
		ID:              d.ID,
		Name:            d.Name,
		Type:            d.Type,
		Status:          d.Status,
		LastConnectedAt: d.LastConnectedAt,
		MACAddress:      d.MACAddress,
	}
}

func toOutputs(devices []domain.Device) []dto.DeviceOutput {
	outputs := make([]dto.DeviceOutput, len(devices))
	for i, d := range devices {
		outputs[i] = toOutput(d)
	}
	return outputs
}
