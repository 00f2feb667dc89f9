package kaat

import (
	"testing"

	"github.com/move-sure/ss-transport-sub002/models"
)

func strp(s string) *string { return &s }
func i64p(i int64) *int64   { return &i }

func TestMatchGroupCriteria(t *testing.T) {
	admin := &models.AdminGroup{
		AdminName: "Sharma Roadways",
		Carriers: []models.Carrier{
			{
				TransportName: "Sharma Kanpur",
				GSTNo:         strp("09AAACS1234F1Z5"),
				CityID:        i64p(7),
				CityName:      "Kanpur",
			},
		},
	}

	tests := []struct {
		name string
		cons models.Consignment
		want bool
	}{
		{"gst match", models.Consignment{GRNo: "A1", TransportGST: strp("09aaacs1234f1z5")}, true},
		{"name match case insensitive", models.Consignment{GRNo: "A2", TransportName: strp("  sharma kanpur ")}, true},
		{"city id match alone suffices", models.Consignment{GRNo: "A3", ToCityID: i64p(7)}, true},
		{"city name fallback", models.Consignment{GRNo: "A4", City: &models.City{CityName: "KANPUR"}}, true},
		{"no criterion matches", models.Consignment{GRNo: "A5", TransportName: strp("Verma Transport"), ToCityID: i64p(9)}, false},
		{"empty identity no match", models.Consignment{GRNo: "A6"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchGroup([]*models.Consignment{&tt.cons}, admin, make(SettledCodes))
			if (len(got) == 1) != tt.want {
				t.Errorf("matched = %d, want match = %v", len(got), tt.want)
			}
		})
	}
}

func TestMatchGroupSettledExclusionRunsFirst(t *testing.T) {
	// a consignment already claimed by some settlement must never match
	// again, even for a different admin whose sub-operator fits it
	admin := &models.AdminGroup{
		AdminName: "Gupta Carriers",
		Carriers: []models.Carrier{
			{TransportName: "Gupta Lucknow", CityID: i64p(3)},
		},
	}
	consignments := []*models.Consignment{
		{GRNo: "GR-100", ToCityID: i64p(3)},
		{GRNo: "gr-101 ", ToCityID: i64p(3)},
	}

	settled := NewSettledCodes([]*models.Settlement{
		{GRNumbers: []string{"GR-101"}},
	})

	got := MatchGroup(consignments, admin, settled)
	if len(got) != 1 {
		t.Fatalf("matched = %d, want 1", len(got))
	}
	if got[0].GRNo != "GR-100" {
		t.Fatalf("matched %q, want GR-100", got[0].GRNo)
	}
}

func TestSettledCodesNormalization(t *testing.T) {
	s := make(SettledCodes)
	s.Add("  gr-55 ")
	if !s.Contains("GR-55") {
		t.Error("uppercase lookup should hit")
	}
	if !s.Contains(" gr-55") {
		t.Error("padded lowercase lookup should hit")
	}
	if s.Contains("GR-56") {
		t.Error("unrelated code should miss")
	}

	s.Add("   ")
	if len(s) != 1 {
		t.Errorf("blank codes must not enter the set, len = %d", len(s))
	}
}

func TestSettledFromCodes(t *testing.T) {
	s := SettledFromCodes([]string{"a1", "A1", "b2"})
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2 after normalization", len(s))
	}
}
