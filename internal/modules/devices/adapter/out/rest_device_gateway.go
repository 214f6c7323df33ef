package out

import (
	"context"
	"net/http"
	"time"

	"pdtrack/internal/modules/devices/domain"
	devicesout "pdtrack/internal/modules/devices/port/out"
	"pdtrack/internal/platform/rest"
)

type RESTDeviceGateway struct {
	client *rest.Client
}

func NewRESTDeviceGateway(client *rest.Client) devicesout.DeviceGateway {
	return &RESTDeviceGateway{client: client}
}

// The backend is inconsistent about the type key: the collection uses "type"
// while the detail endpoint uses "device_type". Both are decoded.
type deviceDocument struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	DeviceType    string `json:"device_type"`
	Status        string `json:"status"`
	LastConnected string `json:"lastConnected"`
	MAC           string `json:"mac"`
}

type createDeviceRequest struct {
	Name       string `json:"name"`
	DeviceType string `json:"device_type"`
	UserID     string `json:"user_id"`
}

func (g *RESTDeviceGateway) List(ctx context.Context) ([]domain.Device, error) {
	var docs []deviceDocument
	if err := g.client.Do(ctx, http.MethodGet, "/devices/", nil, &docs, rest.AuthRequired); err != nil {
		return nil, err
	}
	return toDevices(docs), nil
}

func (g *RESTDeviceGateway) Get(ctx context.Context, id string) (domain.Device, error) {
	var doc deviceDocument
	if err := g.client.Do(ctx, http.MethodGet, "/devices/"+id, nil, &doc, rest.AuthRequired); err != nil {
		return domain.Device{}, err
	}
	return toDevice(doc), nil
}

func (g *RESTDeviceGateway) Create(ctx context.Context, name, deviceType, userID string) (domain.Device, error) {
	req := createDeviceRequest{Name: name, DeviceType: deviceType, UserID: userID}
	var doc deviceDocument
	if err := g.client.Do(ctx, http.MethodPost, "/devices/", req, &doc, rest.AuthRequired); err != nil {
		return domain.Device{}, err
	}
	return toDevice(doc), nil
}

func (g *RESTDeviceGateway) Update(ctx context.Context, id string, fields map[string]string) error {
	return g.client.Do(ctx, http.MethodPut, "/devices/"+id, fields, nil, rest.AuthRequired)
}

func (g *RESTDeviceGateway) Delete(ctx context.Context, id string) error {
	return g.client.Do(ctx, http.MethodDelete, "/devices/"+id, nil, nil, rest.AuthRequired)
}

func (g *RESTDeviceGateway) Summary(ctx context.Context, userID string) ([]domain.Device, error) {
	var resp struct {
		Devices []deviceDocument `json:"devices"`
	}
	if err := g.client.Do(ctx, http.MethodGet, "/user/"+userID+"/select", nil, &resp, rest.AuthRequired); err != nil {
		return nil, err
	}
	return toDevices(resp.Devices), nil
}

func toDevice(doc deviceDocument) domain.Device {
	deviceType := doc.Type
	if deviceType == "" {
		deviceType = doc.DeviceType
	}
	device := domain.Device{
		ID:         doc.ID,
		Name:       doc.Name,
		Type:       deviceType,
		Status:     doc.Status,
		MACAddress: doc.MAC,
	}
	if doc.LastConnected != "" {
		if t, err := time.Parse(time.RFC3339, doc.LastConnected); err == nil {
			device.LastConnectedAt = t
		}
	}
	return device
}

func toDevices(docs []deviceDocument) []domain.Device {
	devices := make([]domain.Device, len(docs))
	for i, doc := range docs {
		devices[i] = toDevice(doc)
	}
	return devices
}
