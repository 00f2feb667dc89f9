package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/move-sure/ss-transport-sub002/repository"
	"github.com/move-sure/ss-transport-sub002/utils"
)

type PDFHandler struct {
	Repo *repository.PDFRepository
}

// KaatBillPDF generates the settlement's kaat bill, uploads it and flips the
// printed flag.
func (h *PDFHandler) KaatBillPDF(w http.ResponseWriter, r *http.Request) {
	settlementID := r.URL.Query().Get("id")
	if settlementID == "" {
		http.Error(w, "missing settlement id", http.StatusBadRequest)
		return
	}

	// Generate PDF bytes
	pdfBytes, err := utils.GenerateKaatBillPDF(h.Repo, settlementID)
	if err != nil {
		http.Error(w, "failed to generate PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(pdfBytes) == 0 {
		http.Error(w, "no settlement found", http.StatusNotFound)
		return
	}

	// Upload PDF to R2
	filename := fmt.Sprintf("kaat_bill_%s_%d.pdf", settlementID, time.Now().Unix())
	fileURL, err := utils.UploadToR2(pdfBytes, filename)
	if err != nil {
		http.Error(w, "failed to upload PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Mark the settlement printed; the bill itself is already uploaded, so a
	// failure here only loses the flag.
	if err := h.Repo.SettlementRepo.MarkPrinted(settlementID, fileURL); err != nil {
		logrus.WithError(err).WithField("settlement_id", settlementID).Warn("failed to mark settlement printed")
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "kaat bill generated",
		Data:    map[string]string{"pdf_url": fileURL},
	})
}
