package repository

import "github.com/move-sure/ss-transport-sub002/models"

// TransportRepository reads the carrier master data and the two-level
// transport-admin hierarchy. Admin groups always come back with their owned
// carriers attached.
type TransportRepository interface {
	GetAdminGroups() ([]*models.AdminGroup, error)
	GetAdminGroupsByIDs(ids []int64) ([]*models.AdminGroup, error)
	GetCarrier(id int64) (*models.Carrier, error)
}
