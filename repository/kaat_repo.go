package repository

import "github.com/move-sure/ss-transport-sub002/models"

// KaatRepository persists per-consignment kaat cells. Upsert keys on gr_no:
// whichever operator edits the cell last owns the row.
type KaatRepository interface {
	Upsert(k *models.ConsignmentKaat) error
	GetByChallan(challanNo string) ([]*models.ConsignmentKaat, error)
	GetByGRNo(grNo string) (*models.ConsignmentKaat, error)
	Delete(grNo string) error
}
