package dto

import "time"

type DeviceOutput struct {
	ID              string
	Name            string
	Type            string
	Status          string
	LastConnectedAt time.Time
	MACAddress      string
}

type CreateInput struct {
	Name string
	Type string
}

// UpdateInput is a partial record: empty fields are omitted from the request
// so the server leaves them unchanged rather than clearing them.
type UpdateInput struct {
	ID   string
	Name string
	Type string
}
