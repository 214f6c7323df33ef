package dto

type ProfileOutput struct {
	ID          string
	Name        string
	Email       string
	Age         int
	Medications []string
}

// UpdateInput carries the full editable document. Password is sent only when
// non-empty; the server keeps the old one otherwise.
type UpdateInput struct {
	Name        string
	Email       string
	Age         int
	Medications []string
	Password    string
}
