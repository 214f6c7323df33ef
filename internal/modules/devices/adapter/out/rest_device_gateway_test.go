package out_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	deviceadapter "pdtrack/internal/modules/devices/adapter/out"
	"pdtrack/internal/platform/rest"
)

type staticTokens struct{}

func (staticTokens) Token() (string, bool) { return "tok-test", true }
func (staticTokens) Invalidate()           {}

type staticIDs struct{}

func (staticIDs) New() string { return "req-test" }

func TestPartialUpdateSendsExactlyTheGivenFields(t *testing.T) {
	t.Parallel()
	var gotMethod, gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gateway := deviceadapter.NewRESTDeviceGateway(rest.NewClient(srv.URL, time.Second, staticTokens{}, staticIDs{}))
	err := gateway.Update(context.Background(), "d-7", map[string]string{"name": "Wrist"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/devices/d-7" {
		t.Fatalf("expected PUT /devices/d-7, got %s %s", gotMethod, gotPath)
	}
	if len(gotBody) != 1 || gotBody["name"] != "Wrist" {
		t.Fatalf("expected a single-field body, got %v", gotBody)
	}
}

func TestGetReadsTheDetailEndpointsDeviceTypeKey(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"d-3","name":"Band","device_type":"wearable","status":"offline"}`))
	}))
	defer srv.Close()

	gateway := deviceadapter.NewRESTDeviceGateway(rest.NewClient(srv.URL, time.Second, staticTokens{}, staticIDs{}))
	device, err := gateway.Get(context.Background(), "d-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if device.Type != "wearable" {
		t.Fatalf("device_type key not decoded, got %q", device.Type)
	}
}

func TestSummaryUnwrapsTheDevicesEnvelope(t *testing.T) {
	t.Parallel()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"devices":[{"id":"d-1","name":"Watch","type":"wearable","status":"online","lastConnected":"2026-02-28T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	gateway := deviceadapter.NewRESTDeviceGateway(rest.NewClient(srv.URL, time.Second, staticTokens{}, staticIDs{}))
	devices, err := gateway.Summary(context.Background(), "u-9")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if gotPath != "/user/u-9/select" {
		t.Fatalf("expected /user/u-9/select, got %s", gotPath)
	}
	if len(devices) != 1 || devices[0].Name != "Watch" {
		t.Fatalf("unexpected devices: %+v", devices)
	}
	if devices[0].LastConnectedAt.IsZero() {
		t.Fatalf("lastConnected not parsed")
	}
}
