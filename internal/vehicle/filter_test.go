package vehicle

import (
	"testing"
	"time"
)

func fixtureList() []Vehicle {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []Vehicle{
		{ID: "v1", VehicleName: "Toyota Corolla", Category: CategorySedan, PricePerDay: 55, Location: "Dhaka", CreatedAt: base},
		{ID: "v2", VehicleName: "Honda CR-V", Category: CategorySUV, PricePerDay: 80, Location: "Chittagong", CreatedAt: base.Add(48 * time.Hour)},
		{ID: "v3", VehicleName: "Tesla Model 3", Category: CategoryElectric, PricePerDay: 120, Location: "Dhaka", CreatedAt: base.Add(24 * time.Hour)},
		{ID: "v4", VehicleName: "Toyota Hiace", Category: CategoryVan, PricePerDay: 70, Location: "Sylhet", CreatedAt: base.Add(72 * time.Hour)},
		{ID: "v5", VehicleName: "Yamaha R15", Category: CategoryMotorcycle, PricePerDay: 25, Location: "dhaka city", CreatedAt: base.Add(12 * time.Hour)},
	}
}

func ids(list []Vehicle) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, v.ID)
	}
	return out
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDeriveZeroSpecPreservesInput(t *testing.T) {
	list := fixtureList()
	got := Derive(list, FilterSpec{})
	if !sameIDs(ids(got), ids(list)) {
		t.Fatalf("zero spec must reproduce input order, got %v", ids(got))
	}
}

func TestDeriveEmptyInput(t *testing.T) {
	got := Derive(nil, FilterSpec{Search: "toyota"})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", ids(got))
	}
}

func TestDeriveSearchCaseInsensitive(t *testing.T) {
	got := Derive(fixtureList(), FilterSpec{Search: "TOYOTA"})
	if !sameIDs(ids(got), []string{"v1", "v4"}) {
		t.Fatalf("expected v1,v4, got %v", ids(got))
	}
}

func TestDeriveLocationCaseInsensitive(t *testing.T) {
	got := Derive(fixtureList(), FilterSpec{Location: "DHAKA"})
	if !sameIDs(ids(got), []string{"v1", "v3", "v5"}) {
		t.Fatalf("expected v1,v3,v5, got %v", ids(got))
	}
}

func TestDeriveFiltersAreConjunctive(t *testing.T) {
	list := fixtureList()
	both := Derive(list, FilterSpec{Category: CategoryElectric, Location: "Dhaka"})

	byCategory := Derive(list, FilterSpec{Category: CategoryElectric})
	byLocation := Derive(list, FilterSpec{Location: "Dhaka"})

	inBoth := func(id string) bool {
		found := func(list []Vehicle) bool {
			for _, v := range list {
				if v.ID == id {
					return true
				}
			}
			return false
		}
		return found(byCategory) && found(byLocation)
	}
	for _, v := range both {
		if !inBoth(v.ID) {
			t.Fatalf("conjunction leaked %s", v.ID)
		}
	}
	if len(both) != 1 || both[0].ID != "v3" {
		t.Fatalf("expected only v3, got %v", ids(both))
	}
}

func TestDeriveSortDirectionsReverse(t *testing.T) {
	list := fixtureList()
	asc := Derive(list, FilterSpec{SortBy: SortPriceLow})
	desc := Derive(list, FilterSpec{SortBy: SortPriceHigh})

	if len(asc) != len(desc) {
		t.Fatalf("length mismatch")
	}
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("expected exact reversal for distinct prices: asc=%v desc=%v", ids(asc), ids(desc))
		}
	}
}

func TestDeriveNewestFirst(t *testing.T) {
	got := Derive(fixtureList(), FilterSpec{SortBy: SortNewest})
	if !sameIDs(ids(got), []string{"v4", "v2", "v3", "v5", "v1"}) {
		t.Fatalf("expected newest-first order, got %v", ids(got))
	}
}

func TestDeriveIsPure(t *testing.T) {
	list := fixtureList()
	spec := FilterSpec{Search: "o", SortBy: SortPriceHigh}

	first := Derive(list, spec)
	second := Derive(list, spec)
	if !sameIDs(ids(first), ids(second)) {
		t.Fatalf("repeated derive diverged: %v vs %v", ids(first), ids(second))
	}
	// 输入不得被排序弄乱
	if !sameIDs(ids(list), []string{"v1", "v2", "v3", "v4", "v5"}) {
		t.Fatalf("input list mutated: %v", ids(list))
	}
}

func TestDerivePriceLowScenario(t *testing.T) {
	list := []Vehicle{
		{ID: "civic", VehicleName: "Civic", PricePerDay: 40, Category: CategorySedan},
		{ID: "crv", VehicleName: "CR-V", PricePerDay: 60, Category: CategorySUV},
	}
	got := Derive(list, FilterSpec{SortBy: SortPriceLow})
	if !sameIDs(ids(got), []string{"civic", "crv"}) {
		t.Fatalf("expected [Civic, CR-V], got %v", ids(got))
	}
}
