package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/auditlab/invoice-reconciler/internal/api/dto"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	WriteJSON(w, status, err)
}

// FormFloat parses a float form field with a default value. A malformed
// value reports an error so the caller can reject the request instead of
// silently comparing with the wrong tolerance.
func FormFloat(r *http.Request, name string, defaultVal float64) (float64, error) {
	val := r.FormValue(name)
	if val == "" {
		return defaultVal, nil
	}
	return strconv.ParseFloat(val, 64)
}

// FormBool parses a boolean form field with a default value.
func FormBool(r *http.Request, name string, defaultVal bool) bool {
	switch r.FormValue(name) {
	case "":
		return defaultVal
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
