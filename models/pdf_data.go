package models

// KaatBillRow is one printed line of a kaat bill: the consignment joined with
// its kaat cell.
type KaatBillRow struct {
	Consignment *Consignment
	Kaat        *ConsignmentKaat
}

type KaatBillPDFData struct {
	Settlement *Settlement
	Challan    *Challan
	Rows       []KaatBillRow
	Date       string // formatted bill date
	Total      string
	TotalWords string
}
