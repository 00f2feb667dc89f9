package kaat

import (
	"github.com/shopspring/decimal"

	"github.com/move-sure/ss-transport-sub002/models"
)

// MinChargeableWeightKg is the weight floor applied whenever the rate has a
// per-kg component. A 30 kg consignment is still charged for 50 kg.
const MinChargeableWeightKg = 50.0

// moneyScale is the internal rounding scale for all monetary outputs.
// Display truncates to 2.
const moneyScale = 4

// Rate is the pricing input of a kaat computation, either resolved from a
// transport_hub_rate row or entered manually on the cell.
type Rate struct {
	Type   string
	PerKg  decimal.Decimal
	PerPkg decimal.Decimal
}

// Result holds the computed payable and the effective realized per-kg rate.
type Result struct {
	Kaat           decimal.Decimal
	ActualKaatRate decimal.Decimal
}

func hasPerKgPart(rateType string) bool {
	return rateType == models.RatePerKg || rateType == models.RateHybrid
}

func hasPerPkgPart(rateType string) bool {
	return rateType == models.RatePerPkg || rateType == models.RateHybrid
}

// ComputeKaat computes the payable amount for one consignment. ancillary is
// the fixed-charge total of the resolved offer; pass decimal.Zero for
// manually entered rates. The minimum-charge floor is NOT applied here; it
// only exists on the bulk aggregation path (BulkAmount).
func ComputeKaat(weightKg float64, pkgCount int, rate Rate, ancillary decimal.Decimal) Result {
	var kaat decimal.Decimal

	if hasPerKgPart(rate.Type) {
		effectiveWeight := weightKg
		if effectiveWeight < MinChargeableWeightKg {
			effectiveWeight = MinChargeableWeightKg
		}
		kaat = kaat.Add(decimal.NewFromFloat(effectiveWeight).Mul(rate.PerKg))
	}
	if hasPerPkgPart(rate.Type) {
		kaat = kaat.Add(decimal.NewFromInt(int64(pkgCount)).Mul(rate.PerPkg))
	}

	kaat = kaat.Add(ancillary).Round(moneyScale)
	if kaat.IsNegative() {
		kaat = decimal.Zero
	}

	return Result{
		Kaat:           kaat,
		ActualKaatRate: actualKaatRate(weightKg, rate),
	}
}

// actualKaatRate is the effective per-kg price actually charged: below the
// weight floor the minimum inflates it above the negotiated rate. Display and
// audit only.
func actualKaatRate(weightKg float64, rate Rate) decimal.Decimal {
	if !hasPerKgPart(rate.Type) {
		return decimal.Zero
	}
	if weightKg > 0 && weightKg < MinChargeableWeightKg {
		floorAmount := decimal.NewFromFloat(MinChargeableWeightKg).Mul(rate.PerKg)
		return floorAmount.Div(decimal.NewFromFloat(weightKg)).Round(moneyScale)
	}
	return rate.PerKg.Round(moneyScale)
}

// Margin computes pf = declaredTotal - kaat. The declared total is forced to
// zero for paid and door-delivery consignments: that revenue accrued at
// origin, not on this leg.
func Margin(declaredTotal, kaat decimal.Decimal, paymentMode string, deliveryType string) decimal.Decimal {
	if paymentMode == models.PaymentPaid || deliveryType == models.DeliveryDoorDelivery {
		declaredTotal = decimal.Zero
	}
	return declaredTotal.Sub(kaat).Round(moneyScale)
}

// AncillaryTotal sums the four fixed charges of an offer.
func AncillaryTotal(offer *models.RateOffer) decimal.Decimal {
	return offer.DocumentationCharge.
		Add(offer.EwayBillCharge).
		Add(offer.LabourCharge).
		Add(offer.OtherCharge)
}

// RateOf converts an offer into a calculator input.
func RateOf(offer *models.RateOffer) Rate {
	return Rate{Type: offer.RateType, PerKg: offer.RatePerKg, PerPkg: offer.RatePerPkg}
}

// BulkAmount is the coarser estimation used when a settlement is raised for a
// whole group: per consignment the kaat is computed without ancillary charges
// and then floored at the offer's minimum charge. The per-row editing path
// never applies this floor; the asymmetry is kept for compatibility with
// existing bills.
func BulkAmount(consignments []*models.Consignment, resolve func(*models.Consignment) *models.ResolvedRate) (decimal.Decimal, int) {
	total := decimal.Zero
	misses := 0
	for _, c := range consignments {
		offer := resolve(c)
		if offer == nil {
			// no negotiated rate and no manual entry: zero contribution
			misses++
			continue
		}
		amount := ComputeKaat(c.Wt, c.NoOfPkg, RateOf(&offer.RateOffer), decimal.Zero).Kaat
		if amount.LessThan(offer.MinCharge) {
			amount = offer.MinCharge
		}
		total = total.Add(amount)
	}
	return total.Round(moneyScale), misses
}

// Display rounds a monetary value to the 2 decimal places shown on screen and
// on printed bills.
func Display(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
