package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/move-sure/ss-transport-sub002/models"
)

type PostgresConsignmentRepo struct {
	DB *sql.DB
}

func NewPostgresConsignmentRepo(db *sql.DB) *PostgresConsignmentRepo {
	return &PostgresConsignmentRepo{DB: db}
}

const consignmentSelect = `
	SELECT
		b.id, b.gr_no, b.to_city_id, b.wt, b.no_of_pkg,
		b.transport_name, b.transport_gst, b.payment_mode, b.delivery_type,
		b.amount, b.consignor_name, b.consignee_name, b.created_at,
		c.id, c.city_name, c.city_code
	FROM bilty b
	LEFT JOIN cities c ON b.to_city_id = c.id
`

func scanConsignments(rows *sql.Rows) ([]*models.Consignment, error) {
	var result []*models.Consignment
	for rows.Next() {
		var b models.Consignment
		var cityID sql.NullInt64
		var cityName, cityCode sql.NullString
		err := rows.Scan(
			&b.ID, &b.GRNo, &b.ToCityID, &b.Wt, &b.NoOfPkg,
			&b.TransportName, &b.TransportGST, &b.PaymentMode, &b.DeliveryType,
			&b.Amount, &b.Consignor, &b.Consignee, &b.CreatedAt,
			&cityID, &cityName, &cityCode,
		)
		if err != nil {
			return nil, err
		}
		if cityID.Valid {
			b.City = &models.City{
				ID:       cityID.Int64,
				CityName: cityName.String,
				CityCode: cityCode.String,
			}
		}
		result = append(result, &b)
	}
	return result, rows.Err()
}

func (r *PostgresConsignmentRepo) GetByChallan(challanNo string) ([]*models.Consignment, error) {
	rows, err := r.DB.Query(consignmentSelect+`
		JOIN transit_details td ON td.gr_no = b.gr_no
		WHERE td.challan_no = $1
		ORDER BY b.gr_no
	`, challanNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConsignments(rows)
}

func (r *PostgresConsignmentRepo) GetByGRNos(grNos []string) ([]*models.Consignment, error) {
	var result []*models.Consignment
	for _, chunk := range chunkStrings(grNos, keyBatchSize) {
		rows, err := r.DB.Query(consignmentSelect+`
			WHERE upper(trim(b.gr_no)) = ANY($1)
			ORDER BY b.gr_no
		`, pq.Array(normalizeAll(chunk)))
		if err != nil {
			return nil, err
		}
		batch, err := scanConsignments(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		result = append(result, batch...)
	}
	return result, nil
}

func (r *PostgresConsignmentRepo) GetChallan(challanNo string) (*models.Challan, error) {
	var ch models.Challan
	err := r.DB.QueryRow(`
		SELECT id, challan_no, truck_no, driver_name, date, is_dispatched, created_at, updated_at
		FROM challan_details
		WHERE challan_no = $1
	`, challanNo).Scan(
		&ch.ID, &ch.ChallanNo, &ch.TruckNo, &ch.DriverName,
		&ch.Date, &ch.IsDispatched, &ch.CreatedAt, &ch.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}
