package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/move-sure/ss-transport-sub002/models"
)

type PostgresRateRepo struct {
	DB *sql.DB
}

func NewPostgresRateRepo(db *sql.DB) *PostgresRateRepo {
	return &PostgresRateRepo{DB: db}
}

const rateSelect = `
	SELECT
		r.id, r.transport_id, r.to_city_id, r.rate_type,
		r.rate_per_kg, r.rate_per_pkg, r.min_charge,
		r.documentation_charge, r.eway_bill_charge, r.labour_charge, r.other_charge,
		r.is_active, r.created_at, r.updated_at,
		t.transport_name, COALESCE(c.city_name, '')
	FROM transport_hub_rate r
	JOIN transport t ON r.transport_id = t.id
	LEFT JOIN cities c ON t.city_id = c.id
`

func scanResolvedRates(rows *sql.Rows) ([]*models.ResolvedRate, error) {
	var result []*models.ResolvedRate
	for rows.Next() {
		var r models.ResolvedRate
		err := rows.Scan(
			&r.ID, &r.TransportID, &r.ToCityID, &r.RateType,
			&r.RatePerKg, &r.RatePerPkg, &r.MinCharge,
			&r.DocumentationCharge, &r.EwayBillCharge, &r.LabourCharge, &r.OtherCharge,
			&r.IsActive, &r.CreatedAt, &r.UpdatedAt,
			&r.TransportName, &r.TransportCity,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, &r)
	}
	return result, rows.Err()
}

func (r *PostgresRateRepo) GetRatesForCity(cityID int64) ([]*models.ResolvedRate, error) {
	rows, err := r.DB.Query(rateSelect+`
		WHERE r.to_city_id = $1 AND r.is_active = true
		ORDER BY t.transport_name
	`, cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResolvedRates(rows)
}

func (r *PostgresRateRepo) GetRatesForCities(cityIDs []int64) ([]*models.ResolvedRate, error) {
	var result []*models.ResolvedRate
	for _, chunk := range chunkInt64s(cityIDs, keyBatchSize) {
		rows, err := r.DB.Query(rateSelect+`
			WHERE r.to_city_id = ANY($1) AND r.is_active = true
			ORDER BY r.to_city_id, t.transport_name
		`, pq.Array(chunk))
		if err != nil {
			return nil, err
		}
		rates, err := scanResolvedRates(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		result = append(result, rates...)
	}
	return result, nil
}

func (r *PostgresRateRepo) GetRateByID(id int64) (*models.ResolvedRate, error) {
	rows, err := r.DB.Query(rateSelect+` WHERE r.id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rates, err := scanResolvedRates(rows)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, nil
	}
	return rates[0], nil
}
