package handlers

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/snplmntn/ainay-companion-care-sub003/logging"
)

// compressionThreshold is the minimum payload size worth gzipping (1KB).
const compressionThreshold = 1024

// RespondWithJSON writes a JSON response, gzipped when the payload is large
// enough and the client accepts it.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))

	acceptsGzip := r != nil &&
		strings.Contains(strings.ToLower(r.Header.Get("Accept-Encoding")), "gzip")
	if len(data) >= compressionThreshold && acceptsGzip {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(code)
		gz := gzip.NewWriter(w)
		defer func() {
			if err := gz.Close(); err != nil {
				logging.Warn("Failed to flush gzip response", "error", err)
			}
		}()
		if _, err := gz.Write(data); err != nil {
			logging.Warn("Failed to write gzip response", "error", err)
		}
		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error body. Errors are small, never gzipped.
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	body, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		logging.Warn("Failed to write error response", "error", err)
	}
}
