package dto

type LoginInput struct {
	Email    string
	Password string
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Age         int
	Medications string
}

type SessionOutput struct {
	Authenticated bool
	UserID        string
}
