package pagination

import "testing"

func TestFromQueryWithoutPageMeansAll(t *testing.T) {
	if p := FromQuery("", "50"); p != nil {
		t.Fatalf("expected nil params, got %+v", p)
	}
}

func TestFromQueryClamps(t *testing.T) {
	p := FromQuery("0", "500")
	if p.Page != 1 || p.PerPage != MaxPerPage {
		t.Fatalf("unexpected params %+v", p)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	res := Slice(items, &PaginationParams{Page: 2, PerPage: 2})
	if len(res.Items) != 2 || res.Items[0] != 3 || res.Items[1] != 4 {
		t.Fatalf("unexpected page %v", res.Items)
	}
	if res.Pagination.Total != 5 || res.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination %+v", res.Pagination)
	}
	if !res.Pagination.HasNext || !res.Pagination.HasPrev {
		t.Fatalf("page 2 of 3 should have both neighbours: %+v", res.Pagination)
	}

	past := Slice(items, &PaginationParams{Page: 9, PerPage: 2})
	if len(past.Items) != 0 {
		t.Fatalf("expected empty page, got %v", past.Items)
	}

	all := Slice(items, nil)
	if len(all.Items) != 5 || all.Pagination != nil {
		t.Fatalf("nil params should return everything without pagination")
	}
}
