package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pricing modes for a transport hub rate.
const (
	RatePerKg  = "per_kg"
	RatePerPkg = "per_pkg"
	RateHybrid = "hybrid"
)

// RateOffer is one negotiated transport_hub_rate row: the price list entry of
// one carrier for one destination city. Inactive offers are invisible to
// resolution.
type RateOffer struct {
	ID                  int64           `json:"id" bson:"_id,omitempty" db:"id"`
	TransportID         int64           `json:"transport_id" bson:"transport_id" db:"transport_id"`
	ToCityID            int64           `json:"to_city_id" bson:"to_city_id" db:"to_city_id"`
	RateType            string          `json:"rate_type" bson:"rate_type" db:"rate_type"`
	RatePerKg           decimal.Decimal `json:"rate_per_kg" bson:"-" db:"rate_per_kg"`
	RatePerPkg          decimal.Decimal `json:"rate_per_pkg" bson:"-" db:"rate_per_pkg"`
	MinCharge           decimal.Decimal `json:"min_charge" bson:"-" db:"min_charge"`
	DocumentationCharge decimal.Decimal `json:"documentation_charge" bson:"-" db:"documentation_charge"`
	EwayBillCharge      decimal.Decimal `json:"eway_bill_charge" bson:"-" db:"eway_bill_charge"`
	LabourCharge        decimal.Decimal `json:"labour_charge" bson:"-" db:"labour_charge"`
	OtherCharge         decimal.Decimal `json:"other_charge" bson:"-" db:"other_charge"`
	IsActive            bool            `json:"is_active" bson:"is_active" db:"is_active"`
	CreatedAt           time.Time       `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty" bson:"updated_at" db:"updated_at"`
}

// ResolvedRate is a RateOffer enriched with the owning carrier for display and
// tie-breaking.
type ResolvedRate struct {
	RateOffer
	TransportName string `json:"transport_name" bson:"transport_name" db:"transport_name"`
	TransportCity string `json:"transport_city,omitempty" bson:"transport_city" db:"transport_city"`
}
