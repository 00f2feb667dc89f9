package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is one kaat_bill_master row: the payable bill raised for one
// (admin group or ad-hoc carrier, challan, carrier) combination. A gr_no may
// appear in at most one settlement's gr_numbers per challan; the guard lives
// in the application layer, not the store.
type Settlement struct {
	ID              string          `json:"id" bson:"_id" db:"id"`
	ChallanNo       string          `json:"challan_no" bson:"challan_no" db:"challan_no"`
	AdminName       *string         `json:"admin_name,omitempty" bson:"admin_name" db:"admin_name"`
	TransportName   string          `json:"transport_name" bson:"transport_name" db:"transport_name"`
	TransportGST    *string         `json:"transport_gst,omitempty" bson:"transport_gst" db:"transport_gst"`
	GRNumbers       []string        `json:"gr_numbers" bson:"gr_numbers" db:"gr_numbers"`
	TotalBiltyCount int             `json:"total_bilty_count" bson:"total_bilty_count" db:"total_bilty_count"`
	TotalAmount     decimal.Decimal `json:"total_amount" bson:"-" db:"total_amount"`
	PrintedYet      bool            `json:"printed_yet" bson:"printed_yet" db:"printed_yet"`
	PDFUrl          *string         `json:"pdf_url,omitempty" bson:"pdf_url" db:"pdf_url"`
	CreatedBy       int64           `json:"created_by" bson:"created_by" db:"created_by"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty" bson:"updated_at" db:"updated_at"`
}
