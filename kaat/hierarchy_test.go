package kaat

import (
	"testing"

	"github.com/move-sure/ss-transport-sub002/models"
)

func TestHierarchyIndexResolve(t *testing.T) {
	admins := []*models.AdminGroup{
		{
			AdminName: "Sharma Roadways",
			GSTNo:     strp("09AAACS0000A1Z1"),
			Carriers: []models.Carrier{
				{TransportName: "Sharma Kanpur", GSTNo: strp("09AAACS1111B1Z2")},
				{TransportName: "Sharma Agra"},
			},
		},
		{
			AdminName: "Gupta Carriers",
			Carriers: []models.Carrier{
				{TransportName: "Gupta Lucknow", GSTNo: strp("09BBBCG2222C1Z3")},
			},
		},
	}

	ix := BuildHierarchyIndex(admins)

	tests := []struct {
		name      string
		gst       string
		carrier   string
		wantAdmin string
		wantOK    bool
	}{
		{"admin's own gst", "09aaacs0000a1z1", "", "Sharma Roadways", true},
		{"sub-operator gst", "09AAACS1111B1Z2", "", "Sharma Roadways", true},
		{"sub-operator name", "", "sharma agra", "Sharma Roadways", true},
		{"admin's own name", "", "Gupta Carriers", "Gupta Carriers", true},
		{"gst wins over name", "09BBBCG2222C1Z3", "Sharma Kanpur", "Gupta Carriers", true},
		{"unknown identity misses", "29XXXXX9999X9Z9", "Unknown Transport", "", false},
		{"empty identity misses", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin, ok := ix.Resolve(tt.gst, tt.carrier)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if admin != tt.wantAdmin {
				t.Errorf("admin = %q, want %q", admin, tt.wantAdmin)
			}
		})
	}
}

func TestHierarchyIndexSkipsBlankKeys(t *testing.T) {
	admins := []*models.AdminGroup{
		{
			AdminName: "Solo Admin",
			GSTNo:     strp("   "),
			Carriers:  []models.Carrier{{TransportName: "  "}},
		},
	}
	ix := BuildHierarchyIndex(admins)
	if _, ok := ix.Resolve("   ", ""); ok {
		t.Error("blank gst must not resolve")
	}
	if admin, ok := ix.Resolve("", "solo admin"); !ok || admin != "Solo Admin" {
		t.Errorf("admin name lookup = %q, %v", admin, ok)
	}
}
