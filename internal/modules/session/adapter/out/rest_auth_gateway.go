package out

import (
	"context"
	"net/http"

	sessionout "pdtrack/internal/modules/session/port/out"
	"pdtrack/internal/platform/rest"
)

type RESTAuthGateway struct {
	client *rest.Client
}

func NewRESTAuthGateway(client *rest.Client) sessionout.AuthGateway {
	return &RESTAuthGateway{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

func (g *RESTAuthGateway) Login(ctx context.Context, email, password string) (sessionout.AuthResult, error) {
	var resp loginResponse
	err := g.client.Do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp, rest.AuthNone)
	if err != nil {
		return sessionout.AuthResult{}, err
	}
	return sessionout.AuthResult{Token: resp.Token, UserID: resp.User.ID}, nil
}

type registerRequest struct {
	Name        string `json:"nume"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Age         int    `json:"age"`
	Medications string `json:"medicamente"`
}

type registerResponse struct {
	Token string `json:"token"`
}

func (g *RESTAuthGateway) Register(ctx context.Context, name, email, password string, age int, medications string) (sessionout.AuthResult, error) {
	req := registerRequest{Name: name, Email: email, Password: password, Age: age, Medications: medications}
	var resp registerResponse
	if err := g.client.Do(ctx, http.MethodPost, "/auth/register", req, &resp, rest.AuthNone); err != nil {
		return sessionout.AuthResult{}, err
	}
	return sessionout.AuthResult{Token: resp.Token}, nil
}
