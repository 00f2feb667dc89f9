package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/move-sure/ss-transport-sub002/models"
)

type PostgresKaatRepo struct {
	DB *sql.DB
}

func NewPostgresKaatRepo(db *sql.DB) *PostgresKaatRepo {
	return &PostgresKaatRepo{DB: db}
}

// Upsert writes one kaat cell, update-in-place on gr_no conflict.
func (r *PostgresKaatRepo) Upsert(k *models.ConsignmentKaat) error {
	k.GRNo = strings.ToUpper(strings.TrimSpace(k.GRNo))
	if k.UpdatedAt.IsZero() {
		k.UpdatedAt = time.Now().UTC()
	}
	_, err := r.DB.Exec(`
		INSERT INTO bilty_wise_kaat(
			gr_no, challan_no, rate_id, rate_type, rate_per_kg, rate_per_pkg,
			kaat, pf, actual_kaat_rate, dd_charge, aaa_no, transport_bilty_no,
			updated_by, updated_at
		)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT(gr_no) DO UPDATE SET
			challan_no = EXCLUDED.challan_no,
			rate_id = EXCLUDED.rate_id,
			rate_type = EXCLUDED.rate_type,
			rate_per_kg = EXCLUDED.rate_per_kg,
			rate_per_pkg = EXCLUDED.rate_per_pkg,
			kaat = EXCLUDED.kaat,
			pf = EXCLUDED.pf,
			actual_kaat_rate = EXCLUDED.actual_kaat_rate,
			dd_charge = EXCLUDED.dd_charge,
			aaa_no = EXCLUDED.aaa_no,
			transport_bilty_no = EXCLUDED.transport_bilty_no,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
	`,
		k.GRNo, k.ChallanNo, k.RateID, k.RateType, k.RatePerKg, k.RatePerPkg,
		k.Kaat, k.PF, k.ActualKaatRate, k.DDCharge, k.AAANo, k.TransportBiltyNo,
		k.UpdatedBy, k.UpdatedAt,
	)
	return err
}

const kaatSelect = `
	SELECT gr_no, challan_no, rate_id, rate_type, rate_per_kg, rate_per_pkg,
	       kaat, pf, actual_kaat_rate, dd_charge, aaa_no, transport_bilty_no,
	       updated_by, updated_at
	FROM bilty_wise_kaat
`

func scanKaats(rows *sql.Rows) ([]*models.ConsignmentKaat, error) {
	var result []*models.ConsignmentKaat
	for rows.Next() {
		var k models.ConsignmentKaat
		err := rows.Scan(
			&k.GRNo, &k.ChallanNo, &k.RateID, &k.RateType, &k.RatePerKg, &k.RatePerPkg,
			&k.Kaat, &k.PF, &k.ActualKaatRate, &k.DDCharge, &k.AAANo, &k.TransportBiltyNo,
			&k.UpdatedBy, &k.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, &k)
	}
	return result, rows.Err()
}

func (r *PostgresKaatRepo) GetByChallan(challanNo string) ([]*models.ConsignmentKaat, error) {
	rows, err := r.DB.Query(kaatSelect+` WHERE challan_no = $1 ORDER BY gr_no`, challanNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKaats(rows)
}

func (r *PostgresKaatRepo) GetByGRNo(grNo string) (*models.ConsignmentKaat, error) {
	rows, err := r.DB.Query(kaatSelect+` WHERE gr_no = $1`, strings.ToUpper(strings.TrimSpace(grNo)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	kaats, err := scanKaats(rows)
	if err != nil {
		return nil, err
	}
	if len(kaats) == 0 {
		return nil, nil
	}
	return kaats[0], nil
}

func (r *PostgresKaatRepo) Delete(grNo string) error {
	_, err := r.DB.Exec(`DELETE FROM bilty_wise_kaat WHERE gr_no = $1`,
		strings.ToUpper(strings.TrimSpace(grNo)))
	return err
}
