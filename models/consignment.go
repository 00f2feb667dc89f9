package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment modes as stored on the bilty row.
const (
	PaymentPaid  = "paid"
	PaymentToPay = "to-pay"
	PaymentFOC   = "foc"
)

// Delivery types. "dd" is door delivery; everything else is ordinary.
const (
	DeliveryOrdinary     = "odc"
	DeliveryDoorDelivery = "dd"
)

// Consignment is one bilty row. It is owned by the bilty-entry side of the
// system; the settlement engine only ever reads it.
type Consignment struct {
	ID            int64           `json:"id" bson:"_id,omitempty" db:"id"`
	GRNo          string          `json:"gr_no" bson:"gr_no" db:"gr_no"`
	ToCityID      *int64          `json:"to_city_id,omitempty" bson:"to_city_id" db:"to_city_id"`
	Wt            float64         `json:"wt" bson:"wt" db:"wt"`
	NoOfPkg       int             `json:"no_of_pkg" bson:"no_of_pkg" db:"no_of_pkg"`
	TransportName *string         `json:"transport_name,omitempty" bson:"transport_name" db:"transport_name"`
	TransportGST  *string         `json:"transport_gst,omitempty" bson:"transport_gst" db:"transport_gst"`
	PaymentMode   string          `json:"payment_mode" bson:"payment_mode" db:"payment_mode"`
	DeliveryType  *string         `json:"delivery_type,omitempty" bson:"delivery_type" db:"delivery_type"`
	Amount        decimal.Decimal `json:"amount" bson:"-" db:"amount"`
	Consignor     *string         `json:"consignor_name,omitempty" bson:"consignor_name" db:"consignor_name"`
	Consignee     *string         `json:"consignee_name,omitempty" bson:"consignee_name" db:"consignee_name"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at" db:"created_at"`

	// Denormalized for responses
	City *City            `json:"city,omitempty" bson:"-" db:"-"`
	Kaat *ConsignmentKaat `json:"kaat,omitempty" bson:"-" db:"-"`
}

// DeclaredTotal is the bilty amount used for margin computation. Paid and
// door-delivery shipments accrued their revenue at origin, so this leg
// contributes nothing.
func (c *Consignment) DeclaredTotal() decimal.Decimal {
	if c.PaymentMode == PaymentPaid {
		return decimal.Zero
	}
	if c.DeliveryType != nil && *c.DeliveryType == DeliveryDoorDelivery {
		return decimal.Zero
	}
	return c.Amount
}
