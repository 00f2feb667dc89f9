package livesync

import "encoding/json"

// Op is the change kind carried by a row notification.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Tables the engine subscribes to.
const (
	TableKaat       = "bilty_wise_kaat"
	TableSettlement = "kaat_bill_master"
	TableRate       = "transport_hub_rate"
)

// Event is one row-level change notification. For deletes only the key is
// guaranteed; Record carries the full row otherwise.
type Event struct {
	Table     string          `json:"table"`
	Op        Op              `json:"op"`
	Key       string          `json:"key"`
	ChallanNo string          `json:"challan_no,omitempty"`
	CityID    int64           `json:"city_id,omitempty"`
	Record    json.RawMessage `json:"record,omitempty"`
}

// Feed is a live source of change events.
type Feed interface {
	Events() <-chan Event
	Close() error
}
