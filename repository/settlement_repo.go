package repository

import "github.com/move-sure/ss-transport-sub002/models"

// SettlementRepository persists kaat_bill_master rows.
type SettlementRepository interface {
	Create(s *models.Settlement) error
	Update(s *models.Settlement) error
	Delete(id string) error
	GetByID(id string) (*models.Settlement, error)
	GetByChallan(challanNo string) ([]*models.Settlement, error)
	// GetSettledCodes flattens every settlement's gr_numbers for the challan
	// into one list; it backs the deduplication guard.
	GetSettledCodes(challanNo string) ([]string, error)
	MarkPrinted(id string, pdfURL string) error
}
