package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/move-sure/ss-transport-sub002/kaat"
	"github.com/move-sure/ss-transport-sub002/models"
	"github.com/move-sure/ss-transport-sub002/repository"
)

type KaatHandler struct {
	Kaats        repository.KaatRepository
	Consignments repository.ConsignmentRepository
	Rates        repository.RateRepository
}

type kaatUpsertRequest struct {
	GRNo             string          `json:"gr_no"`
	ChallanNo        string          `json:"challan_no"`
	RateID           *int64          `json:"rate_id"`
	RateType         string          `json:"rate_type"`
	RatePerKg        decimal.Decimal `json:"rate_per_kg"`
	RatePerPkg       decimal.Decimal `json:"rate_per_pkg"`
	DDCharge         decimal.Decimal `json:"dd_charge"`
	AAANo            *string         `json:"aaa_no"`
	TransportBiltyNo *string         `json:"transport_bilty_no"`
	UpdatedBy        *int64          `json:"updated_by"`
}

// UpsertKaat writes one kaat cell. The payable, margin and effective rate are
// always recomputed server-side from the consignment's weight and package
// count; ancillary charges apply only when the rate came from an offer, and
// the minimum-charge floor is never applied on this path.
func (h *KaatHandler) UpsertKaat(w http.ResponseWriter, r *http.Request) {
	var req kaatUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.GRNo == "" || req.ChallanNo == "" {
		http.Error(w, "gr_no and challan_no are required", http.StatusBadRequest)
		return
	}

	consignments, err := h.Consignments.GetByGRNos([]string{req.GRNo})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(consignments) == 0 {
		http.Error(w, "consignment not found", http.StatusNotFound)
		return
	}
	c := consignments[0]

	if req.RateID == nil && req.RateType == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: kaat.ErrNoRate.Error(),
		})
		return
	}

	rate := kaat.Rate{Type: req.RateType, PerKg: req.RatePerKg, PerPkg: req.RatePerPkg}
	ancillary := decimal.Zero
	if req.RateID != nil {
		offer, err := h.Rates.GetRateByID(*req.RateID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if offer == nil {
			http.Error(w, "rate offer not found", http.StatusNotFound)
			return
		}
		rate = kaat.RateOf(&offer.RateOffer)
		ancillary = kaat.AncillaryTotal(&offer.RateOffer)
	}

	result := kaat.ComputeKaat(c.Wt, c.NoOfPkg, rate, ancillary)

	deliveryType := ""
	if c.DeliveryType != nil {
		deliveryType = *c.DeliveryType
	}
	pf := kaat.Margin(c.Amount, result.Kaat, c.PaymentMode, deliveryType)

	cell := &models.ConsignmentKaat{
		GRNo:             kaat.NormalizeGRNo(req.GRNo),
		ChallanNo:        req.ChallanNo,
		RateID:           req.RateID,
		RateType:         rate.Type,
		RatePerKg:        rate.PerKg,
		RatePerPkg:       rate.PerPkg,
		Kaat:             result.Kaat,
		PF:               pf,
		ActualKaatRate:   result.ActualKaatRate,
		DDCharge:         req.DDCharge,
		AAANo:            req.AAANo,
		TransportBiltyNo: req.TransportBiltyNo,
		UpdatedBy:        req.UpdatedBy,
	}
	if err := h.Kaats.Upsert(cell); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, cell)
}

func (h *KaatHandler) DeleteKaat(w http.ResponseWriter, r *http.Request) {
	grNo := r.URL.Query().Get("gr_no")
	if grNo == "" {
		http.Error(w, "missing gr_no", http.StatusBadRequest)
		return
	}
	if err := h.Kaats.Delete(grNo); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Kaat entry deleted"})
}
