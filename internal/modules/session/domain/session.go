package domain

// Storage keys used by the credential store. They are the only values that
// survive a process restart.
const (
	KeyToken  = "userToken"
	KeyUserID = "userId"
)

// Session is the authenticated identity context attached to protected calls.
// A non-empty Token is the single source of truth for "logged in"; UserID is
// only ever present alongside a token.
type Session struct {
	Token  string
	UserID string
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}
