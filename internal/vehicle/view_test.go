package vehicle

import "testing"

func TestViewDiscardsStaleRefresh(t *testing.T) {
	v := NewView()

	first := v.BeginRefresh()
	second := v.BeginRefresh()

	// 后发起的刷新先完成
	if !v.ApplyRefresh(second, []Vehicle{{ID: "new"}}) {
		t.Fatalf("expected newer refresh applied")
	}
	// 先发起的刷新后完成：必须被丢弃
	if v.ApplyRefresh(first, []Vehicle{{ID: "old"}}) {
		t.Fatalf("expected stale refresh discarded")
	}

	visible := v.Visible()
	if len(visible) != 1 || visible[0].ID != "new" {
		t.Fatalf("expected newer list to win, got %v", ids(visible))
	}
}

func TestViewResetRestoresOriginalOrder(t *testing.T) {
	v := NewView()
	list := fixtureList()
	v.ApplyRefresh(v.BeginRefresh(), list)

	v.SetSpec(FilterSpec{Category: CategorySUV, SortBy: SortPriceLow})
	if len(v.Visible()) == len(list) {
		t.Fatalf("expected filter to narrow the list")
	}

	v.Reset()
	if !sameIDs(ids(v.Visible()), ids(list)) {
		t.Fatalf("reset must reproduce the unfiltered order, got %v", ids(v.Visible()))
	}
	if !v.Spec().IsZero() {
		t.Fatalf("reset must clear the spec")
	}
}

func TestViewSpecRecompute(t *testing.T) {
	v := NewView()
	v.ApplyRefresh(v.BeginRefresh(), fixtureList())

	v.SetSpec(FilterSpec{Search: "toyota"})
	if !sameIDs(ids(v.Visible()), []string{"v1", "v4"}) {
		t.Fatalf("expected search applied, got %v", ids(v.Visible()))
	}

	v.SetSpec(FilterSpec{Search: "toyota", SortBy: SortPriceLow})
	if !sameIDs(ids(v.Visible()), []string{"v1", "v4"}) {
		t.Fatalf("expected price order v1(55),v4(70), got %v", ids(v.Visible()))
	}
}
