package handlers

import (
	"net/http"

	"github.com/move-sure/ss-transport-sub002/kaat"
	"github.com/move-sure/ss-transport-sub002/models"
	"github.com/move-sure/ss-transport-sub002/repository"
)

type TransportHandler struct {
	Repo repository.TransportRepository
}

// GetAdminGroups returns the transport-admin hierarchy with sub-operators
// attached, ready for hierarchy-index building on the client.
func (h *TransportHandler) GetAdminGroups(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Repo.GetAdminGroups()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if admins == nil {
		admins = []*models.AdminGroup{}
	}
	writeJSON(w, http.StatusOK, admins)
}

// ResolveCarrier attributes a free-text carrier identity (gst and/or name
// query params) to its owning transport admin. A miss is a valid answer: the
// carrier is billed ad hoc, outside any admin group.
func (h *TransportHandler) ResolveCarrier(w http.ResponseWriter, r *http.Request) {
	gst := r.URL.Query().Get("gst")
	name := r.URL.Query().Get("name")
	if gst == "" && name == "" {
		http.Error(w, "missing gst or name", http.StatusBadRequest)
		return
	}

	admins, err := h.Repo.GetAdminGroups()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	adminName, ok := kaat.BuildHierarchyIndex(admins).Resolve(gst, name)
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data: map[string]interface{}{
			"attributed": ok,
			"admin_name": adminName,
		},
	})
}
