package vehicle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/WheelShare/WheelShare/internal/api"
	"github.com/WheelShare/WheelShare/internal/common/config"
	"github.com/WheelShare/WheelShare/internal/common/logger"
	"github.com/WheelShare/WheelShare/internal/session"
)

type fakeIDs struct {
	id *session.Identity
}

func (f *fakeIDs) Current() (session.Identity, bool) {
	if f.id == nil {
		return session.Identity{}, false
	}
	return *f.id, true
}

type vehicleAPI struct {
	mu      sync.Mutex
	stored  Vehicle
	mutates int // PUT/POST/DELETE 次数
}

func (s *vehicleAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/vehicles/"):
			_ = json.NewEncoder(w).Encode(s.stored)
		case r.Method == http.MethodPost && r.URL.Path == "/vehicles":
			s.mutates++
			var v Vehicle
			_ = json.NewDecoder(r.Body).Decode(&v)
			v.ID = "veh-new"
			s.stored = v
			_ = json.NewEncoder(w).Encode(v)
		case r.Method == http.MethodPut || r.Method == http.MethodDelete:
			s.mutates++
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		}
	})
}

func (s *vehicleAPI) mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutates
}

func newTestService(t *testing.T, srv *vehicleAPI, ids *fakeIDs) *Service {
	t.Helper()
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)
	client := api.NewClient(config.APIConfig{BaseURL: ts.URL, TimeoutSeconds: 5}, nil, logger.Nop())
	return NewService(client, ids)
}

func ownedVehicleFixture() Vehicle {
	return Vehicle{
		ID:           "veh-1",
		VehicleName:  "Corolla",
		Owner:        "Rahim",
		Category:     CategorySedan,
		PricePerDay:  55,
		Location:     "Dhaka",
		Availability: Available,
		UserEmail:    "rahim@example.com",
		CreatedAt:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateRequiresSession(t *testing.T) {
	srv := &vehicleAPI{}
	svc := newTestService(t, srv, &fakeIDs{})

	_, err := svc.Create(context.Background(), Draft{})
	if !api.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if srv.mutations() != 0 {
		t.Fatalf("anonymous create must not reach the network")
	}
}

func TestCreateFillsOwnerFields(t *testing.T) {
	srv := &vehicleAPI{}
	ids := &fakeIDs{id: &session.Identity{Email: "rahim@example.com", DisplayName: "Rahim"}}
	svc := newTestService(t, srv, ids)

	created, err := svc.Create(context.Background(), Draft{
		VehicleName:  "Corolla",
		Category:     CategorySedan,
		PricePerDay:  55,
		Location:     "Dhaka",
		Availability: Available,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.UserEmail != "rahim@example.com" {
		t.Fatalf("expected owner email filled, got %q", created.UserEmail)
	}
	if created.Owner != "Rahim" {
		t.Fatalf("expected owner display name defaulted, got %q", created.Owner)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt filled")
	}
}

func TestCreateRejectsInvalidDraftLocally(t *testing.T) {
	srv := &vehicleAPI{}
	ids := &fakeIDs{id: &session.Identity{Email: "rahim@example.com", DisplayName: "Rahim"}}
	svc := newTestService(t, srv, ids)

	_, err := svc.Create(context.Background(), Draft{
		VehicleName:  "Corolla",
		Category:     CategorySedan,
		PricePerDay:  -1,
		Location:     "Dhaka",
		Availability: Available,
	})
	if !api.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if srv.mutations() != 0 {
		t.Fatalf("invalid draft must not reach the network")
	}
}

func TestUpdateOnlyByOwner(t *testing.T) {
	srv := &vehicleAPI{stored: ownedVehicleFixture()}
	ids := &fakeIDs{id: &session.Identity{Email: "intruder@example.com"}}
	svc := newTestService(t, srv, ids)

	draft := Draft{
		VehicleName:  "Corolla 2024",
		Owner:        "Intruder",
		Category:     CategorySedan,
		PricePerDay:  60,
		Location:     "Dhaka",
		Availability: Available,
	}
	_, err := svc.Update(context.Background(), "veh-1", draft)
	if !api.IsValidation(err) {
		t.Fatalf("expected ValidationError for non-owner, got %v", err)
	}
	if srv.mutations() != 0 {
		t.Fatalf("non-owner update must not reach the network")
	}
}

func TestUpdateKeepsCreatedAtAndOwnerEmail(t *testing.T) {
	fixture := ownedVehicleFixture()
	srv := &vehicleAPI{stored: fixture}
	ids := &fakeIDs{id: &session.Identity{Email: "rahim@example.com", DisplayName: "Rahim"}}
	svc := newTestService(t, srv, ids)

	updated, err := svc.Update(context.Background(), "veh-1", Draft{
		VehicleName:  "Corolla 2024",
		Owner:        "Rahim",
		Category:     CategorySedan,
		PricePerDay:  60,
		Location:     "Dhaka",
		Availability: Available,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.CreatedAt.Equal(fixture.CreatedAt) {
		t.Fatalf("createdAt must be preserved, got %v", updated.CreatedAt)
	}
	if updated.UserEmail != fixture.UserEmail {
		t.Fatalf("owner email must be preserved, got %q", updated.UserEmail)
	}
}

func TestDeleteOnlyByOwner(t *testing.T) {
	srv := &vehicleAPI{stored: ownedVehicleFixture()}
	ids := &fakeIDs{id: &session.Identity{Email: "intruder@example.com"}}
	svc := newTestService(t, srv, ids)

	if err := svc.Delete(context.Background(), "veh-1"); !api.IsValidation(err) {
		t.Fatalf("expected ValidationError for non-owner, got %v", err)
	}
	if srv.mutations() != 0 {
		t.Fatalf("non-owner delete must not reach the network")
	}
}
