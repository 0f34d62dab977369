package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/WheelShare/WheelShare/internal/booking"
	"github.com/WheelShare/WheelShare/internal/vehicle"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestVehicleSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := []vehicle.Vehicle{
		{ID: "v1", VehicleName: "Corolla", Category: vehicle.CategorySedan, PricePerDay: 55, Location: "Dhaka", Availability: vehicle.Available, UserEmail: "a@b.c", CreatedAt: created},
		{ID: "v2", VehicleName: "CR-V", Category: vehicle.CategorySUV, PricePerDay: 80, Location: "Sylhet", Availability: vehicle.Booked, UserEmail: "d@e.f", CreatedAt: created.Add(time.Hour)},
	}
	if err := s.SaveVehicles(ctx, in); err != nil {
		t.Fatalf("SaveVehicles: %v", err)
	}

	got, err := s.Vehicles(ctx)
	if err != nil {
		t.Fatalf("Vehicles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(got))
	}
	if got[0].ID != "v2" {
		t.Fatalf("expected newest first, got %s", got[0].ID)
	}
	if got[1].Category != vehicle.CategorySedan || got[1].Availability != vehicle.Available {
		t.Fatalf("enum round trip failed: %+v", got[1])
	}

	// 整体替换：旧快照不得残留
	if err := s.SaveVehicles(ctx, in[:1]); err != nil {
		t.Fatalf("SaveVehicles: %v", err)
	}
	got, err = s.Vehicles(ctx)
	if err != nil {
		t.Fatalf("Vehicles: %v", err)
	}
	if len(got) != 1 || got[0].ID != "v1" {
		t.Fatalf("expected snapshot replaced, got %d rows", len(got))
	}
}

func TestBookingSnapshotPerUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	when := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	mine := []booking.Booking{
		{ID: "b1", VehicleID: "v1", VehicleName: "Corolla", PricePerDay: 55, UserEmail: "me@x.y", UserName: "Me", BookingDate: when},
	}
	other := []booking.Booking{
		{ID: "b2", VehicleID: "v2", VehicleName: "CR-V", PricePerDay: 80, UserEmail: "you@x.y", UserName: "You", BookingDate: when},
	}
	if err := s.SaveBookings(ctx, "me@x.y", mine); err != nil {
		t.Fatalf("SaveBookings: %v", err)
	}
	if err := s.SaveBookings(ctx, "you@x.y", other); err != nil {
		t.Fatalf("SaveBookings: %v", err)
	}

	got, err := s.Bookings(ctx, "me@x.y")
	if err != nil {
		t.Fatalf("Bookings: %v", err)
	}
	if len(got) != 1 || got[0].VehicleID != "v1" {
		t.Fatalf("unexpected bookings: %+v", got)
	}

	// 替换只影响对应用户
	if err := s.SaveBookings(ctx, "me@x.y", nil); err != nil {
		t.Fatalf("SaveBookings: %v", err)
	}
	got, err = s.Bookings(ctx, "you@x.y")
	if err != nil {
		t.Fatalf("Bookings: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("other user's snapshot must survive, got %d", len(got))
	}
}
