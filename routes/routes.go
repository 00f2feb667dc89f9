package routes

import (
	"net/http"

	"github.com/move-sure/ss-transport-sub002/handlers"
)

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*") // Replace * with your domain in production
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func SetupRoutes(
	userHandler *handlers.UserHandler,
	rateHandler *handlers.RateHandler,
	transportHandler *handlers.TransportHandler,
	challanHandler *handlers.ChallanHandler,
	kaatHandler *handlers.KaatHandler,
	settlementHandler *handlers.SettlementHandler,
	pdfHandler *handlers.PDFHandler,
	liveHandler *handlers.LiveHandler,
) {
	// User routes
	http.Handle("/signup", withCORS(http.HandlerFunc(handlers.RecoverWrapper(userHandler.Signup))))
	http.Handle("/login", withCORS(http.HandlerFunc(handlers.RecoverWrapper(userHandler.Login))))

	// Reference data
	http.Handle("/rates", withCORS(http.HandlerFunc(handlers.RecoverWrapper(rateHandler.GetRates))))
	http.Handle("/admins", withCORS(http.HandlerFunc(handlers.RecoverWrapper(transportHandler.GetAdminGroups))))
	http.Handle("/admins/resolve", withCORS(http.HandlerFunc(handlers.RecoverWrapper(transportHandler.ResolveCarrier))))

	// Challan screen: consignments merged with their kaat cells
	http.Handle("/challan/bilties", withCORS(http.HandlerFunc(handlers.RecoverWrapper(challanHandler.GetBilties))))

	// Kaat cell routes
	http.Handle("/kaat", withCORS(http.HandlerFunc(handlers.RecoverWrapper(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			kaatHandler.UpsertKaat(w, r)
		case http.MethodDelete:
			kaatHandler.DeleteKaat(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))))

	// Settlement routes
	http.Handle("/settlement", withCORS(http.HandlerFunc(handlers.RecoverWrapper(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			settlementHandler.CreateSettlement(w, r)
		case http.MethodGet:
			settlementHandler.GetSettlements(w, r)
		case http.MethodDelete:
			settlementHandler.DeleteSettlement(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))))

	// Edit settlement by ID
	http.Handle("/settlement/", withCORS(http.HandlerFunc(handlers.RecoverWrapper(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/settlement/"):]
		if id != "" && r.Method == http.MethodPut {
			settlementHandler.UpdateSettlement(w, r, id)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))))

	// exact patterns take precedence over the /settlement/ prefix above
	http.Handle("/settlement/bulk", withCORS(http.HandlerFunc(handlers.RecoverWrapper(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			settlementHandler.BulkSave(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))))
	http.Handle("/settlement/pdf", withCORS(http.HandlerFunc(handlers.RecoverWrapper(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			pdfHandler.KaatBillPDF(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))))

	// Live change feed (SSE)
	http.Handle("/live", withCORS(http.HandlerFunc(handlers.RecoverWrapper(liveHandler.Stream))))
}
