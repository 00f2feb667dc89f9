package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/move-sure/ss-transport-sub002/models"
)

type PostgresTransportRepo struct {
	DB *sql.DB
}

func NewPostgresTransportRepo(db *sql.DB) *PostgresTransportRepo {
	return &PostgresTransportRepo{DB: db}
}

func (r *PostgresTransportRepo) GetAdminGroups() ([]*models.AdminGroup, error) {
	return r.getAdminGroups(nil)
}

func (r *PostgresTransportRepo) GetAdminGroupsByIDs(ids []int64) ([]*models.AdminGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.getAdminGroups(ids)
}

func (r *PostgresTransportRepo) getAdminGroups(ids []int64) ([]*models.AdminGroup, error) {
	query := `SELECT id, admin_name, gst_no, owner, created_at FROM transport_admin`
	args := []interface{}{}
	if ids != nil {
		query += ` WHERE id = ANY($1)`
		args = append(args, pq.Array(ids))
	}
	query += ` ORDER BY admin_name`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []*models.AdminGroup
	byID := make(map[int64]*models.AdminGroup)
	for rows.Next() {
		var a models.AdminGroup
		if err := rows.Scan(&a.ID, &a.AdminName, &a.GSTNo, &a.Owner, &a.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, &a)
		byID[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, nil
	}

	// load all sub-operators in one go
	adminIDs := make([]int64, 0, len(admins))
	for _, a := range admins {
		adminIDs = append(adminIDs, a.ID)
	}
	carrierRows, err := r.DB.Query(`
		SELECT t.id, t.transport_name, t.gst_no, t.city_id, t.admin_id, t.created_at,
		       COALESCE(c.city_name, ''), COALESCE(c.city_code, '')
		FROM transport t
		LEFT JOIN cities c ON t.city_id = c.id
		WHERE t.admin_id = ANY($1)
		ORDER BY t.transport_name
	`, pq.Array(adminIDs))
	if err != nil {
		return nil, err
	}
	defer carrierRows.Close()

	for carrierRows.Next() {
		var c models.Carrier
		err := carrierRows.Scan(
			&c.ID, &c.TransportName, &c.GSTNo, &c.CityID, &c.AdminID, &c.CreatedAt,
			&c.CityName, &c.CityCode,
		)
		if err != nil {
			return nil, err
		}
		if c.AdminID != nil {
			if admin, ok := byID[*c.AdminID]; ok {
				admin.Carriers = append(admin.Carriers, c)
			}
		}
	}
	return admins, carrierRows.Err()
}

func (r *PostgresTransportRepo) GetCarrier(id int64) (*models.Carrier, error) {
	var c models.Carrier
	err := r.DB.QueryRow(`
		SELECT t.id, t.transport_name, t.gst_no, t.city_id, t.admin_id, t.created_at,
		       COALESCE(c.city_name, ''), COALESCE(c.city_code, '')
		FROM transport t
		LEFT JOIN cities c ON t.city_id = c.id
		WHERE t.id = $1
	`, id).Scan(
		&c.ID, &c.TransportName, &c.GSTNo, &c.CityID, &c.AdminID, &c.CreatedAt,
		&c.CityName, &c.CityCode,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
