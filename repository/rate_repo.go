package repository

import "github.com/move-sure/ss-transport-sub002/models"

// RateRepository reads active transport hub rates, carrier-enriched. Inactive
// offers never come back.
type RateRepository interface {
	GetRatesForCity(cityID int64) ([]*models.ResolvedRate, error)
	GetRatesForCities(cityIDs []int64) ([]*models.ResolvedRate, error)
	GetRateByID(id int64) (*models.ResolvedRate, error)
}
