package domain

// Profile is the server-owned user document. It is fetched on demand and
// never durably cached; the last-fetched copy lives in the service for the
// lifetime of the screen that asked for it.
type Profile struct {
	ID          string
	Name        string
	Email       string
	Age         int
	Medications []string
}
