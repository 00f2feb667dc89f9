package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/move-sure/ss-transport-sub002/livesync"
)

type LiveHandler struct {
	Hub *livesync.Hub
}

// Stream serves the per-challan change feed over SSE. The first event is a
// full snapshot of the folded state; after that each row change arrives as
// its own event. Clients reconnect and re-read the snapshot after any drop.
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	challanNo := r.URL.Query().Get("challan_no")
	if challanNo == "" {
		http.Error(w, "missing challan_no", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := h.Hub.Subscribe(uuid.NewString(), challanNo)
	defer h.Hub.Unsubscribe(sub.ID)

	snapshot, _ := json.Marshal(h.Hub.StateFor(challanNo))
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", snapshot)
	flusher.Flush()

	for {
		select {
		case e, open := <-sub.Events:
			if !open {
				return
			}
			payload, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
