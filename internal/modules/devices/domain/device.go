package domain

import "time"

// Device is one server-owned wearable. The list held locally is always a
// point-in-time snapshot, discarded and refetched after any mutation.
type Device struct {
	ID              string
	Name            string
	Type            string
	Status          string
	LastConnectedAt time.Time
	MACAddress      string
}

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

func (d Device) Online() bool {
	return d.Status == StatusOnline
}
