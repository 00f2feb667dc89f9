package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/move-sure/ss-transport-sub002/models"
)

type PostgresSettlementRepo struct {
	DB *sql.DB
}

func NewPostgresSettlementRepo(db *sql.DB) *PostgresSettlementRepo {
	return &PostgresSettlementRepo{DB: db}
}

func (r *PostgresSettlementRepo) Create(s *models.Settlement) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.Exec(`
		INSERT INTO kaat_bill_master(
			id, challan_no, admin_name, transport_name, transport_gst,
			gr_numbers, total_bilty_count, total_amount, printed_yet, pdf_url,
			created_by, created_at
		)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		s.ID, s.ChallanNo, s.AdminName, s.TransportName, s.TransportGST,
		pq.Array(s.GRNumbers), s.TotalBiltyCount, s.TotalAmount, s.PrintedYet, s.PDFUrl,
		s.CreatedBy, s.CreatedAt,
	)
	return err
}

func (r *PostgresSettlementRepo) Update(s *models.Settlement) error {
	now := time.Now().UTC()
	s.UpdatedAt = &now
	_, err := r.DB.Exec(`
		UPDATE kaat_bill_master SET
			admin_name = $1,
			transport_name = $2,
			transport_gst = $3,
			gr_numbers = $4,
			total_bilty_count = $5,
			total_amount = $6,
			updated_at = $7
		WHERE id = $8
	`,
		s.AdminName, s.TransportName, s.TransportGST,
		pq.Array(s.GRNumbers), s.TotalBiltyCount, s.TotalAmount, s.UpdatedAt, s.ID,
	)
	return err
}

func (r *PostgresSettlementRepo) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM kaat_bill_master WHERE id = $1`, id)
	return err
}

const settlementSelect = `
	SELECT id, challan_no, admin_name, transport_name, transport_gst,
	       gr_numbers, total_bilty_count, total_amount, printed_yet, pdf_url,
	       created_by, created_at, updated_at
	FROM kaat_bill_master
`

func scanSettlements(rows *sql.Rows) ([]*models.Settlement, error) {
	var result []*models.Settlement
	for rows.Next() {
		var s models.Settlement
		err := rows.Scan(
			&s.ID, &s.ChallanNo, &s.AdminName, &s.TransportName, &s.TransportGST,
			pq.Array(&s.GRNumbers), &s.TotalBiltyCount, &s.TotalAmount, &s.PrintedYet, &s.PDFUrl,
			&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	return result, rows.Err()
}

func (r *PostgresSettlementRepo) GetByID(id string) (*models.Settlement, error) {
	rows, err := r.DB.Query(settlementSelect+` WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	settlements, err := scanSettlements(rows)
	if err != nil {
		return nil, err
	}
	if len(settlements) == 0 {
		return nil, nil
	}
	return settlements[0], nil
}

func (r *PostgresSettlementRepo) GetByChallan(challanNo string) ([]*models.Settlement, error) {
	rows, err := r.DB.Query(settlementSelect+` WHERE challan_no = $1 ORDER BY created_at`, challanNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSettlements(rows)
}

func (r *PostgresSettlementRepo) GetSettledCodes(challanNo string) ([]string, error) {
	rows, err := r.DB.Query(`
		SELECT unnest(gr_numbers) FROM kaat_bill_master WHERE challan_no = $1
	`, challanNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *PostgresSettlementRepo) MarkPrinted(id string, pdfURL string) error {
	_, err := r.DB.Exec(`
		UPDATE kaat_bill_master SET printed_yet = true, pdf_url = $1, updated_at = $2 WHERE id = $3
	`, pdfURL, time.Now().UTC(), id)
	return err
}
