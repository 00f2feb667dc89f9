package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/move-sure/ss-transport-sub002/kaat"
	"github.com/move-sure/ss-transport-sub002/models"
	"github.com/move-sure/ss-transport-sub002/repository"
	"github.com/move-sure/ss-transport-sub002/utils"
)

type SettlementHandler struct {
	Builder      *kaat.Builder
	Settlements  repository.SettlementRepository
	Consignments repository.ConsignmentRepository
	Transports   repository.TransportRepository
}

type settlementSaveRequest struct {
	ChallanNo     string   `json:"challan_no"`
	GRNos         []string `json:"gr_nos"`
	AdminName     *string  `json:"admin_name"`
	TransportName string   `json:"transport_name"`
	TransportGST  *string  `json:"transport_gst"`
	CreatedBy     int64    `json:"created_by"`
}

func (h *SettlementHandler) save(w http.ResponseWriter, r *http.Request, editID string) {
	var req settlementSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ChallanNo == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "challan_no is required"})
		return
	}

	consignments, err := h.Consignments.GetByGRNos(req.GRNos)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	settlement, err := h.Builder.SaveGroup(consignments, kaat.SaveInput{
		ChallanNo:     req.ChallanNo,
		AdminName:     req.AdminName,
		TransportName: req.TransportName,
		TransportGST:  req.TransportGST,
		CreatedBy:     req.CreatedBy,
		EditID:        editID,
	})
	if err != nil {
		if errors.Is(err, kaat.ErrNoSelection) || errors.Is(err, kaat.ErrNoCarrier) || errors.Is(err, kaat.ErrAlreadySettled) {
			writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusCreated
	if editID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, ApiResponse{Success: true, Message: "Settlement saved", Data: settlement})
}

// CreateSettlement handles the single-group save: one atomic write for one
// operator-selected set of consignments.
func (h *SettlementHandler) CreateSettlement(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "")
}

// UpdateSettlement re-saves an existing settlement in edit mode.
func (h *SettlementHandler) UpdateSettlement(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := h.Settlements.GetByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "settlement not found", http.StatusNotFound)
		return
	}
	h.save(w, r, id)
}

type bulkSaveRequest struct {
	ChallanNo string  `json:"challan_no"`
	AdminIDs  []int64 `json:"admin_ids"`
	CreatedBy int64   `json:"created_by"`
}

// BulkSave runs the multi-group settlement workflow for the selected admin
// groups. The response always carries every attempted triple; partial
// failure is a 200 with per-item statuses.
func (h *SettlementHandler) BulkSave(w http.ResponseWriter, r *http.Request) {
	var req bulkSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ChallanNo == "" || len(req.AdminIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "challan_no and admin_ids are required"})
		return
	}

	consignments, err := h.Consignments.GetByChallan(req.ChallanNo)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	admins, err := h.Transports.GetAdminGroupsByIDs(req.AdminIDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := h.Builder.BulkSave(r.Context(), req.ChallanNo, consignments, admins, req.CreatedBy, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{Success: !result.AllFailed(), Data: result})
}

func (h *SettlementHandler) GetSettlements(w http.ResponseWriter, r *http.Request) {
	challanNo := r.URL.Query().Get("challan_no")
	if challanNo == "" {
		http.Error(w, "missing challan_no", http.StatusBadRequest)
		return
	}
	settlements, err := h.Settlements.GetByChallan(challanNo)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if settlements == nil {
		settlements = []*models.Settlement{}
	}
	writeJSON(w, http.StatusOK, settlements)
}

func (h *SettlementHandler) DeleteSettlement(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing settlement id", http.StatusBadRequest)
		return
	}
	existing, err := h.Settlements.GetByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.Settlements.Delete(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// the row is gone; a stranded PDF object only wastes bucket space
	if existing != nil && existing.PDFUrl != nil {
		if err := utils.DeleteFromR2(*existing.PDFUrl); err != nil {
			logrus.WithError(err).WithField("settlement_id", id).Warn("failed to delete kaat bill PDF")
		}
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Settlement deleted"})
}
