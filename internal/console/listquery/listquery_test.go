package listquery

import (
	"testing"
	"time"
)

type supply struct {
	ID        string
	Reagent   string
	Vendor    string
	Lot       string
	OrderDate time.Time
}

var supplySchema = Schema[supply]{
	SearchFields: []string{"reagent", "lot"},
	FieldValue: func(s supply, field string) string {
		switch field {
		case "reagent":
			return s.Reagent
		case "vendor":
			return s.Vendor
		case "lot":
			return s.Lot
		}
		return ""
	},
	DateValue: func(s supply) (time.Time, bool) {
		return s.OrderDate, !s.OrderDate.IsZero()
	},
	GroupKey: func(s supply) string { return s.Vendor },
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func fixtures() []supply {
	return []supply{
		{ID: "1", Reagent: "Ethanol", Vendor: "Sigma", Lot: "L-100", OrderDate: day(1)},
		{ID: "2", Reagent: "Methanol", Vendor: "Sigma", Lot: "L-200", OrderDate: day(10)},
		{ID: "3", Reagent: "Ethanol", Vendor: "Fisher", Lot: "L-300", OrderDate: day(20)},
		{ID: "4", Reagent: "Acetone", Vendor: "Fisher", Lot: "L-400", OrderDate: day(25)},
	}
}

func ids(items []supply) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.ID
	}
	return out
}

func TestFiltersComposeWithAND(t *testing.T) {
	from, to := day(5), day(22)
	cases := []struct {
		name     string
		criteria Criteria
		wantIDs  []string
	}{
		{"no criteria returns all", Criteria{}, []string{"1", "2", "3", "4"}},
		{"search alone", Criteria{SearchText: "ethanol"}, []string{"1", "2", "3"}},
		{"exact alone", Criteria{Exact: map[string]string{"vendor": "Fisher"}}, []string{"3", "4"}},
		{"sentinel All skips filter", Criteria{Exact: map[string]string{"vendor": "All"}}, []string{"1", "2", "3", "4"}},
		{"sentinel empty skips filter", Criteria{Exact: map[string]string{"vendor": ""}}, []string{"1", "2", "3", "4"}},
		{"date range inclusive", Criteria{DateFrom: &from, DateTo: &to}, []string{"2", "3"}},
		{
			"search AND exact AND date",
			Criteria{SearchText: "ethanol", Exact: map[string]string{"vendor": "Fisher"}, DateFrom: &from},
			[]string{"3"},
		},
		{"unmatched search yields empty", Criteria{SearchText: "xylene"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Apply(fixtures(), tc.criteria, supplySchema))
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("want ids %v, got %v", tc.wantIDs, got)
			}
			for i := range got {
				if got[i] != tc.wantIDs[i] {
					t.Fatalf("want ids %v, got %v", tc.wantIDs, got)
				}
			}
		})
	}
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	got := Apply(fixtures(), Criteria{SearchText: "l-20"}, supplySchema)
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected lot substring match on record 2, got %v", ids(got))
	}
}

func TestDateBoundsAreInclusive(t *testing.T) {
	from, to := day(10), day(20)
	got := Apply(fixtures(), Criteria{DateFrom: &from, DateTo: &to}, supplySchema)
	if len(got) != 2 {
		t.Fatalf("boundary dates must be included, got %v", ids(got))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := fixtures()
	_ = Apply(records, Criteria{SearchText: "ethanol"}, supplySchema)
	if len(records) != 4 || records[0].ID != "1" {
		t.Fatal("input slice was mutated")
	}
}

func TestAggregateCountsByGroup(t *testing.T) {
	counts := Aggregate(fixtures(), supplySchema)
	if counts["Sigma"] != 2 || counts["Fisher"] != 2 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestPaginateCoversCollectionExactlyOnce(t *testing.T) {
	records := make([]supply, 0, 57)
	for i := 0; i < 57; i++ {
		records = append(records, supply{ID: string(rune('A' + i%26))})
	}

	seen := 0
	first := Paginate(records, 1, 25)
	if first.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 57 records at 25/page, got %d", first.TotalPages)
	}
	for page := 1; page <= first.TotalPages; page++ {
		p := Paginate(records, page, 25)
		seen += len(p.Items)
	}
	if seen != len(records) {
		t.Fatalf("pages must concatenate to the full collection: saw %d of %d", seen, len(records))
	}
}

func TestPaginateClampsOutOfRangePages(t *testing.T) {
	records := fixtures()

	over := Paginate(records, 99, 2)
	if over.Page != over.TotalPages {
		t.Fatalf("page beyond range must clamp to last page, got %d/%d", over.Page, over.TotalPages)
	}
	if len(over.Items) == 0 {
		t.Fatal("clamped page must carry records")
	}

	under := Paginate(records, -3, 2)
	if under.Page != 1 {
		t.Fatalf("page below range must clamp to 1, got %d", under.Page)
	}
}

func TestPaginateEmptyCollection(t *testing.T) {
	p := Paginate[supply](nil, 1, 25)
	if p.Page != 1 || p.TotalPages != 1 || len(p.Items) != 0 {
		t.Fatalf("empty collection must yield valid empty page 1, got %+v", p)
	}
}
