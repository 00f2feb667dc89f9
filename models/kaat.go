package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsignmentKaat is one bilty_wise_kaat row: the resolved or manually entered
// settlement rate and the computed payable for one consignment. At most one
// row exists per gr_no; writes upsert on that key.
type ConsignmentKaat struct {
	GRNo             string          `json:"gr_no" bson:"_id" db:"gr_no"`
	ChallanNo        string          `json:"challan_no" bson:"challan_no" db:"challan_no"`
	RateID           *int64          `json:"rate_id,omitempty" bson:"rate_id" db:"rate_id"`
	RateType         string          `json:"rate_type" bson:"rate_type" db:"rate_type"`
	RatePerKg        decimal.Decimal `json:"rate_per_kg" bson:"-" db:"rate_per_kg"`
	RatePerPkg       decimal.Decimal `json:"rate_per_pkg" bson:"-" db:"rate_per_pkg"`
	Kaat             decimal.Decimal `json:"kaat" bson:"-" db:"kaat"`
	PF               decimal.Decimal `json:"pf" bson:"-" db:"pf"`
	ActualKaatRate   decimal.Decimal `json:"actual_kaat_rate" bson:"-" db:"actual_kaat_rate"`
	DDCharge         decimal.Decimal `json:"dd_charge" bson:"-" db:"dd_charge"`
	AAANo            *string         `json:"aaa_no,omitempty" bson:"aaa_no" db:"aaa_no"`
	TransportBiltyNo *string         `json:"transport_bilty_no,omitempty" bson:"transport_bilty_no" db:"transport_bilty_no"`
	UpdatedBy        *int64          `json:"updated_by,omitempty" bson:"updated_by" db:"updated_by"`
	UpdatedAt        time.Time       `json:"updated_at" bson:"updated_at" db:"updated_at"`
}

// Profit is the displayed margin after the door-delivery surcharge.
func (k *ConsignmentKaat) Profit() decimal.Decimal {
	return k.PF.Sub(k.DDCharge)
}
