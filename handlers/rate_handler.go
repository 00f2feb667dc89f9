package handlers

import (
	"net/http"
	"strconv"

	"github.com/move-sure/ss-transport-sub002/kaat"
	"github.com/move-sure/ss-transport-sub002/models"
)

type RateHandler struct {
	Catalog *kaat.Catalog
}

// GetRates returns every active rate offer for a destination city. An empty
// list is a valid answer: no negotiated rate for that city.
func (h *RateHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	cityIDStr := r.URL.Query().Get("city_id")
	if cityIDStr == "" {
		http.Error(w, "missing city_id", http.StatusBadRequest)
		return
	}
	cityID, err := strconv.ParseInt(cityIDStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid city_id", http.StatusBadRequest)
		return
	}

	rates, err := h.Catalog.RatesFor(cityID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rates == nil {
		rates = []*models.ResolvedRate{}
	}

	writeJSON(w, http.StatusOK, rates)
}
