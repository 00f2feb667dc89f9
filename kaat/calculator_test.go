package kaat

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/move-sure/ss-transport-sub002/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeKaat(t *testing.T) {
	tests := []struct {
		name      string
		weightKg  float64
		pkgCount  int
		rate      Rate
		ancillary decimal.Decimal
		wantKaat  string
		wantRate  string
	}{
		{
			name:     "per-kg below the weight floor charges 50 kg",
			weightKg: 30,
			pkgCount: 5,
			rate:     Rate{Type: models.RatePerKg, PerKg: dec("10")},
			wantKaat: "500",
			wantRate: "16.6667",
		},
		{
			name:     "per-kg above the floor charges actual weight",
			weightKg: 80,
			pkgCount: 0,
			rate:     Rate{Type: models.RatePerKg, PerKg: dec("8")},
			wantKaat: "640",
			wantRate: "8",
		},
		{
			name:      "hybrid sums floored per-kg part, per-pkg part and ancillary",
			weightKg:  20,
			pkgCount:  3,
			rate:      Rate{Type: models.RateHybrid, PerKg: dec("5"), PerPkg: dec("20")},
			ancillary: dec("15"),
			wantKaat:  "325",
			wantRate:  "12.5",
		},
		{
			name:     "per-pkg ignores weight entirely",
			weightKg: 10,
			pkgCount: 4,
			rate:     Rate{Type: models.RatePerPkg, PerPkg: dec("25")},
			wantKaat: "100",
			wantRate: "0",
		},
		{
			name:     "exactly 50 kg charges unchanged",
			weightKg: 50,
			pkgCount: 0,
			rate:     Rate{Type: models.RatePerKg, PerKg: dec("7")},
			wantKaat: "350",
			wantRate: "7",
		},
		{
			name:     "zero weight still pays the floor",
			weightKg: 0,
			pkgCount: 0,
			rate:     Rate{Type: models.RatePerKg, PerKg: dec("6")},
			wantKaat: "300",
			wantRate: "6",
		},
		{
			name:      "negative outcome clamps to zero",
			weightKg:  30,
			pkgCount:  0,
			rate:      Rate{Type: models.RatePerKg, PerKg: dec("1")},
			ancillary: dec("-200"),
			wantKaat:  "0",
			wantRate:  "1.6667",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeKaat(tt.weightKg, tt.pkgCount, tt.rate, tt.ancillary)
			if !got.Kaat.Equal(dec(tt.wantKaat)) {
				t.Errorf("kaat = %s, want %s", got.Kaat, tt.wantKaat)
			}
			if !got.ActualKaatRate.Equal(dec(tt.wantRate)) {
				t.Errorf("actualKaatRate = %s, want %s", got.ActualKaatRate, tt.wantRate)
			}
		})
	}
}

func TestComputeKaatIdempotent(t *testing.T) {
	rate := Rate{Type: models.RateHybrid, PerKg: dec("4.25"), PerPkg: dec("11.5")}
	first := ComputeKaat(37.6, 8, rate, dec("30"))
	second := ComputeKaat(37.6, 8, rate, dec("30"))
	if !first.Kaat.Equal(second.Kaat) || !first.ActualKaatRate.Equal(second.ActualKaatRate) {
		t.Fatalf("same inputs produced %v then %v", first, second)
	}
}

func TestActualRateInflatedBelowFloor(t *testing.T) {
	rate := Rate{Type: models.RatePerKg, PerKg: dec("10")}
	got := ComputeKaat(30, 0, rate, decimal.Zero)
	if !got.ActualKaatRate.GreaterThan(rate.PerKg) {
		t.Fatalf("actualKaatRate = %s, want > negotiated %s", got.ActualKaatRate, rate.PerKg)
	}
	if s := Display(got.ActualKaatRate).StringFixed(2); s != "16.67" {
		t.Fatalf("displayed actualKaatRate = %s, want 16.67", s)
	}
}

func TestMargin(t *testing.T) {
	tests := []struct {
		name         string
		declared     string
		kaat         string
		paymentMode  string
		deliveryType string
		want         string
	}{
		{"to-pay keeps declared total", "1000", "300", models.PaymentToPay, models.DeliveryOrdinary, "700"},
		{"paid forces declared total to zero", "1000", "300", models.PaymentPaid, models.DeliveryOrdinary, "-300"},
		{"door delivery forces declared total to zero", "800", "250", models.PaymentToPay, models.DeliveryDoorDelivery, "-250"},
		{"foc behaves like to-pay", "400", "500", models.PaymentFOC, models.DeliveryOrdinary, "-100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Margin(dec(tt.declared), dec(tt.kaat), tt.paymentMode, tt.deliveryType)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("pf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBulkAmountAppliesMinChargeFloor(t *testing.T) {
	toCity := int64(1)
	consignments := []*models.Consignment{
		{GRNo: "GR1", ToCityID: &toCity, Wt: 10, NoOfPkg: 1},  // 50*2 = 100, below min
		{GRNo: "GR2", ToCityID: &toCity, Wt: 200, NoOfPkg: 1}, // 400, above min
		{GRNo: "GR3", Wt: 60, NoOfPkg: 1},                     // no rate: zero contribution
	}
	offer := &models.ResolvedRate{
		RateOffer: models.RateOffer{
			RateType:  models.RatePerKg,
			RatePerKg: dec("2"),
			MinCharge: dec("150"),
		},
	}
	resolve := func(c *models.Consignment) *models.ResolvedRate {
		if c.ToCityID == nil {
			return nil
		}
		return offer
	}

	total, misses := BulkAmount(consignments, resolve)
	if !total.Equal(dec("550")) {
		t.Fatalf("total = %s, want 550", total)
	}
	if misses != 1 {
		t.Fatalf("misses = %d, want 1", misses)
	}
}

func TestPerRowPathSkipsMinChargeFloor(t *testing.T) {
	// the per-row edit path never consults MinCharge; only the bulk
	// aggregation does
	got := ComputeKaat(10, 1, Rate{Type: models.RatePerKg, PerKg: dec("2")}, decimal.Zero)
	if !got.Kaat.Equal(dec("100")) {
		t.Fatalf("kaat = %s, want 100 with no minimum applied", got.Kaat)
	}
}

func TestDeclaredTotal(t *testing.T) {
	dd := models.DeliveryDoorDelivery
	odc := models.DeliveryOrdinary

	tests := []struct {
		name string
		cons models.Consignment
		want string
	}{
		{"to-pay ordinary keeps amount", models.Consignment{PaymentMode: models.PaymentToPay, DeliveryType: &odc, Amount: dec("900")}, "900"},
		{"paid zeroes out", models.Consignment{PaymentMode: models.PaymentPaid, DeliveryType: &odc, Amount: dec("900")}, "0"},
		{"door delivery zeroes out", models.Consignment{PaymentMode: models.PaymentToPay, DeliveryType: &dd, Amount: dec("900")}, "0"},
		{"nil delivery type keeps amount", models.Consignment{PaymentMode: models.PaymentToPay, Amount: dec("450")}, "450"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cons.DeclaredTotal(); !got.Equal(dec(tt.want)) {
				t.Errorf("declared total = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAncillaryTotal(t *testing.T) {
	offer := &models.RateOffer{
		DocumentationCharge: dec("10"),
		EwayBillCharge:      dec("5"),
		LabourCharge:        dec("20"),
		OtherCharge:         dec("2.5"),
	}
	if got := AncillaryTotal(offer); !got.Equal(dec("37.5")) {
		t.Fatalf("ancillary = %s, want 37.5", got)
	}
}
