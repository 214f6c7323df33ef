package out

import (
	"context"
	"net/http"
	"strings"

	"pdtrack/internal/modules/profile/domain"
	profileout "pdtrack/internal/modules/profile/port/out"
	"pdtrack/internal/platform/rest"
)

type RESTProfileGateway struct {
	client *rest.Client
}

func NewRESTProfileGateway(client *rest.Client) profileout.ProfileGateway {
	return &RESTProfileGateway{client: client}
}

// The backend stores medications as one comma-separated string under the
// legacy field name "medicamente"; the boundary between that shape and the
// domain's string slice lives here and nowhere else.
type profileDocument struct {
	ID          string `json:"id"`
	Name        string `json:"nume"`
	Email       string `json:"email"`
	Age         int    `json:"age"`
	Medications string `json:"medicamente"`
}

type profileUpdate struct {
	Name        string `json:"nume"`
	Email       string `json:"email"`
	Age         int    `json:"age"`
	Medications string `json:"medicamente"`
	Password    string `json:"password,omitempty"`
}

func (g *RESTProfileGateway) Fetch(ctx context.Context) (domain.Profile, error) {
	var doc profileDocument
	if err := g.client.Do(ctx, http.MethodGet, "/users/profile", nil, &doc, rest.AuthRequired); err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{
		ID:          doc.ID,
		Name:        doc.Name,
		Email:       doc.Email,
		Age:         doc.Age,
		Medications: splitMedications(doc.Medications),
	}, nil
}

func (g *RESTProfileGateway) Update(ctx context.Context, profile domain.Profile, password string) error {
	body := profileUpdate{
		Name:        profile.Name,
		Email:       profile.Email,
		Age:         profile.Age,
		Medications: strings.Join(profile.Medications, ","),
		Password:    password,
	}
	return g.client.Do(ctx, http.MethodPut, "/users/profile", body, nil, rest.AuthRequired)
}

func splitMedications(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	meds := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			meds = append(meds, trimmed)
		}
	}
	return meds
}
