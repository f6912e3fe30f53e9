package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/vessel-ops/internal/db"
	"github.com/ukydev/vessel-ops/internal/fuel"
	"github.com/ukydev/vessel-ops/internal/maintenance"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.New("invalid JSON")
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, maintenance.ErrInvalidTripDuration),
		errors.Is(err, maintenance.ErrInvalidDate),
		errors.Is(err, maintenance.ErrInvalidRule),
		errors.Is(err, maintenance.ErrInvalidInput),
		errors.Is(err, db.ErrInvalidID),
		errors.Is(err, fuel.ErrInvalidCoordinate):
		return http.StatusBadRequest
	case errors.Is(err, maintenance.ErrVesselNotFound),
		errors.Is(err, maintenance.ErrRuleNotFound),
		errors.Is(err, maintenance.ErrTaskNotFound),
		errors.Is(err, maintenance.ErrStateNotFound),
		errors.Is(err, fuel.ErrSpecNotFound),
		errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, maintenance.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, maintenance.ErrUnsupportedTrigger):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Internal errors are logged
// and hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{"method": r.Method, "path": r.URL.Path}).Error("Request failed")
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
