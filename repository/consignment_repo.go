package repository

import "github.com/move-sure/ss-transport-sub002/models"

// ConsignmentRepository is the engine's read-only view over bilty rows. The
// bilty-entry side owns the writes.
type ConsignmentRepository interface {
	GetByChallan(challanNo string) ([]*models.Consignment, error)
	GetByGRNos(grNos []string) ([]*models.Consignment, error)
	GetChallan(challanNo string) (*models.Challan, error)
}
