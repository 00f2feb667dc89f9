package models

import "time"

// Challan is one truck manifest.
type Challan struct {
	ID           int64      `json:"id" bson:"_id,omitempty" db:"id"`
	ChallanNo    string     `json:"challan_no" bson:"challan_no" db:"challan_no"`
	TruckNo      *string    `json:"truck_no,omitempty" bson:"truck_no" db:"truck_no"`
	DriverName   *string    `json:"driver_name,omitempty" bson:"driver_name" db:"driver_name"`
	Date         time.Time  `json:"date" bson:"date" db:"date"`
	IsDispatched bool       `json:"is_dispatched" bson:"is_dispatched" db:"is_dispatched"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" bson:"updated_at" db:"updated_at"`
}

// TransitDetail links one consignment to one challan.
type TransitDetail struct {
	ID        int64  `json:"id" bson:"_id,omitempty" db:"id"`
	ChallanNo string `json:"challan_no" bson:"challan_no" db:"challan_no"`
	GRNo      string `json:"gr_no" bson:"gr_no" db:"gr_no"`
}
