package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/move-sure/ss-transport-sub002/kaat"
	"github.com/move-sure/ss-transport-sub002/models"
	"github.com/move-sure/ss-transport-sub002/repository"
)

type ChallanHandler struct {
	Consignments repository.ConsignmentRepository
	Kaats        repository.KaatRepository
	Catalog      *kaat.Catalog
}

// GetBilties returns a manifest's consignments with their kaat cells merged
// in. The rate cache is prefetched for every destination on the manifest so
// the review screen resolves rates without further round trips.
func (h *ChallanHandler) GetBilties(w http.ResponseWriter, r *http.Request) {
	challanNo := r.URL.Query().Get("challan_no")
	if challanNo == "" {
		http.Error(w, "missing challan_no", http.StatusBadRequest)
		return
	}

	consignments, err := h.Consignments.GetByChallan(challanNo)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if consignments == nil {
		consignments = []*models.Consignment{}
	}

	kaats, err := h.Kaats.GetByChallan(challanNo)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	byGRNo := make(map[string]*models.ConsignmentKaat, len(kaats))
	for _, k := range kaats {
		byGRNo[kaat.NormalizeGRNo(k.GRNo)] = k
	}

	var cityIDs []int64
	for _, c := range consignments {
		c.Kaat = byGRNo[kaat.NormalizeGRNo(c.GRNo)]
		if c.ToCityID != nil {
			cityIDs = append(cityIDs, *c.ToCityID)
		}
	}
	if err := h.Catalog.Prefetch(r.Context(), cityIDs); err != nil {
		// non-fatal: rates resolve lazily on first use
		logrus.WithError(err).Warn("rate prefetch failed")
	}

	writeJSON(w, http.StatusOK, consignments)
}
