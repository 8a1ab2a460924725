package health

import (
	"encoding/json"
	"net/http"
)

// Handler serves the Metadata returned by report as JSON. The response code
// is always 200; the status travels in the document.
func Handler(report func() Metadata) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := json.Marshal(report())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
