package repository

import (
	"github.com/move-sure/ss-transport-sub002/kaat"
	"github.com/move-sure/ss-transport-sub002/models"
)

// PDFRepository provides methods to fetch data for kaat bill PDF generation
type PDFRepository struct {
	SettlementRepo  SettlementRepository
	ConsignmentRepo ConsignmentRepository
	KaatRepo        KaatRepository
}

// NewPDFRepository initializes a PDF repository
func NewPDFRepository(settlementRepo SettlementRepository, consignmentRepo ConsignmentRepository, kaatRepo KaatRepository) *PDFRepository {
	return &PDFRepository{
		SettlementRepo:  settlementRepo,
		ConsignmentRepo: consignmentRepo,
		KaatRepo:        kaatRepo,
	}
}

// GetSettlementForPDF fetches a single settlement by ID for PDF
func (r *PDFRepository) GetSettlementForPDF(id string) (*models.Settlement, error) {
	return r.SettlementRepo.GetByID(id)
}

// GetRowsForPDF fetches the settlement's consignments joined with their kaat
// cells, in the order the gr numbers were claimed.
func (r *PDFRepository) GetRowsForPDF(s *models.Settlement) ([]models.KaatBillRow, error) {
	consignments, err := r.ConsignmentRepo.GetByGRNos(s.GRNumbers)
	if err != nil {
		return nil, err
	}
	cells, err := r.KaatRepo.GetByChallan(s.ChallanNo)
	if err != nil {
		return nil, err
	}

	byGR := make(map[string]*models.Consignment, len(consignments))
	for _, c := range consignments {
		byGR[kaat.NormalizeGRNo(c.GRNo)] = c
	}
	cellByGR := make(map[string]*models.ConsignmentKaat, len(cells))
	for _, k := range cells {
		cellByGR[kaat.NormalizeGRNo(k.GRNo)] = k
	}

	rows := make([]models.KaatBillRow, 0, len(s.GRNumbers))
	for _, gr := range s.GRNumbers {
		key := kaat.NormalizeGRNo(gr)
		c, ok := byGR[key]
		if !ok {
			continue
		}
		rows = append(rows, models.KaatBillRow{Consignment: c, Kaat: cellByGR[key]})
	}
	return rows, nil
}

// GetChallanForPDF fetches the challan header for the bill
func (r *PDFRepository) GetChallanForPDF(challanNo string) (*models.Challan, error) {
	return r.ConsignmentRepo.GetChallan(challanNo)
}
