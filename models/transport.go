package models

import "time"

// Carrier is one named transport operator. Carrier rows are master data; the
// carrier fields on a consignment are free text entered at bilty time and may
// not exactly reference any Carrier row.
type Carrier struct {
	ID            int64     `json:"id" bson:"_id,omitempty" db:"id"`
	TransportName string    `json:"transport_name" bson:"transport_name" db:"transport_name"`
	GSTNo         *string   `json:"gst_no,omitempty" bson:"gst_no" db:"gst_no"`
	CityID        *int64    `json:"city_id,omitempty" bson:"city_id" db:"city_id"`
	AdminID       *int64    `json:"admin_id,omitempty" bson:"admin_id" db:"admin_id"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" db:"created_at"`

	// Denormalized home city for matching/display
	CityName string `json:"city_name,omitempty" bson:"city_name" db:"-"`
	CityCode string `json:"city_code,omitempty" bson:"city_code" db:"-"`
}

// AdminGroup is a transport_admin row: the billing parent that settlement
// bills are raised against, owning zero or more Carriers as sub-operators.
type AdminGroup struct {
	ID        int64     `json:"id" bson:"_id,omitempty" db:"id"`
	AdminName string    `json:"admin_name" bson:"admin_name" db:"admin_name"`
	GSTNo     *string   `json:"gst_no,omitempty" bson:"gst_no" db:"gst_no"`
	Owner     *string   `json:"owner,omitempty" bson:"owner" db:"owner"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`

	Carriers []Carrier `json:"carriers" bson:"-" db:"-"`
}
