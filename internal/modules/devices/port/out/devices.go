package out

import (
	"context"

	"pdtrack/internal/modules/devices/domain"
)

// DeviceGateway maps 1:1 onto the backend's /devices endpoints. Update takes
// only the fields to change; absent keys stay untouched server-side.
type DeviceGateway interface {
	List(ctx context.Context) ([]domain.Device, error)
	Get(ctx context.Context, id string) (domain.Device, error)
	Create(ctx context.Context, name, deviceType, userID string) (domain.Device, error)
	Update(ctx context.Context, id string, fields map[string]string) error
	Delete(ctx context.Context, id string) error
	// Summary is the home screen's condensed listing, GET /user/{id}/select.
	Summary(ctx context.Context, userID string) ([]domain.Device, error)
}
