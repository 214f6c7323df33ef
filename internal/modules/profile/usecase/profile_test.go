package usecase_test

import (
	"context"
	"errors"
	"testing"

	"pdtrack/internal/modules/profile/domain"
	"pdtrack/internal/modules/profile/dto"
	"pdtrack/internal/modules/profile/service"
	"pdtrack/internal/modules/profile/usecase"
	apperrors "pdtrack/internal/platform/errors"
)

type fakeGateway struct {
	canonical domain.Profile

	fetchCalls      int
	updatedProfile  domain.Profile
	updatedPassword string
}

func (f *fakeGateway) Fetch(context.Context) (domain.Profile, error) {
	f.fetchCalls++
	return f.canonical, nil
}

func (f *fakeGateway) Update(_ context.Context, profile domain.Profile, password string) error {
	f.updatedProfile = profile
	f.updatedPassword = password
	return nil
}

func TestUpdateReportsTheServersVersionNotTheInput(t *testing.T) {
	t.Parallel()
	// The server normalizes the name; the output must reflect that, proving
	// the snapshot comes from a refetch rather than a local patch.
	gateway := &fakeGateway{canonical: domain.Profile{ID: "p-1", Name: "Ana Pop", Email: "ana@example.com", Age: 64}}
	uc := usecase.NewInteractor(service.NewProfileService(gateway))

	out, err := uc.Update(context.Background(), dto.UpdateInput{
		Name:        "  ana pop  ",
		Email:       "ana@example.com",
		Age:         64,
		Medications: []string{"levodopa"},
		Password:    "new-pw",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gateway.fetchCalls != 1 {
		t.Fatalf("update must refetch exactly once, got %d", gateway.fetchCalls)
	}
	if gateway.updatedPassword != "new-pw" {
		t.Fatalf("password not forwarded")
	}
	if out.Name != "Ana Pop" {
		t.Fatalf("output must mirror the server state, got %q", out.Name)
	}
}

func TestUpdateValidatesRequiredFields(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		input dto.UpdateInput
		field string
	}{
		{"missing name", dto.UpdateInput{Email: "a@b.c"}, "name"},
		{"missing email", dto.UpdateInput{Name: "Ana"}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gateway := &fakeGateway{}
			uc := usecase.NewInteractor(service.NewProfileService(gateway))
			_, err := uc.Update(context.Background(), tc.input)
			var valErr *apperrors.ValidationError
			if !errors.As(err, &valErr) || valErr.Field != tc.field {
				t.Fatalf("expected %s validation error, got %v", tc.field, err)
			}
			if gateway.fetchCalls != 0 {
				t.Fatalf("gateway must not be touched on invalid input")
			}
		})
	}
}

func TestFetchMapsTheProfileDocument(t *testing.T) {
	t.Parallel()
	gateway := &fakeGateway{canonical: domain.Profile{
		ID: "p-1", Name: "Ana", Email: "ana@example.com", Age: 64,
		Medications: []string{"levodopa", "amantadine"},
	}}
	uc := usecase.NewInteractor(service.NewProfileService(gateway))

	out, err := uc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out.ID != "p-1" || len(out.Medications) != 2 {
		t.Fatalf("unexpected output: %+v", out)
	}
}
