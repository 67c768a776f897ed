package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/hydrolog-io/hydrolog/internal/auth"
	"github.com/hydrolog-io/hydrolog/internal/database"
	"github.com/hydrolog-io/hydrolog/internal/water"
)

type updateWaterRequest struct {
	FullBottles int `json:"fullBottles"`
	HalfBottles int `json:"halfBottles"`
}

// GetWaterHandler returns today's consumption for the caller, zeros if no
// record exists yet.
func (api *Api) GetWaterHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rec, err := api.Ledger.Today(claims.UserID)
	if err != nil {
		log.Printf("Error reading today's record for %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fullBottles":  rec.FullBottles,
		"halfBottles":  rec.HalfBottles,
		"totalBottles": rec.TotalBottles,
		"totalML":      rec.TotalML,
	})
}

// UpdateWaterHandler replaces today's counts for the caller. The write is a
// single atomic upsert, so repeated or concurrent submissions never create a
// second row for the day.
func (api *Api) UpdateWaterHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateWaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Fractional counts fail integer decoding and land here
		writeError(w, http.StatusBadRequest, "fullBottles and halfBottles must be integers")
		return
	}

	rec, err := api.Ledger.Upsert(claims.UserID, req.FullBottles, req.HalfBottles)
	if errors.Is(err, water.ErrInvalidQuantity) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("Error upserting record for %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Water intake updated successfully",
		"record":  rec,
	})
}

// HistoryHandler returns up to 30 of the caller's records, newest first.
func (api *Api) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := api.Ledger.History(claims.UserID)
	if err != nil {
		log.Printf("Error reading history for %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// ExportHandler serializes the caller's history and uploads it to object
// storage. 503 when no storage backend is configured.
func (api *Api) ExportHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if api.Uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Export storage is not configured")
		return
	}

	records, err := api.Ledger.History(claims.UserID)
	if err != nil {
		log.Printf("Error reading history for %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	body, err := json.Marshal(records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	result, err := api.Uploader.UploadExport(r.Context(), claims.UserID, body)
	if err != nil {
		log.Printf("Export upload failed for %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "Export upload failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HealthHandler reports liveness with a trivial store read.
func (api *Api) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := database.Health(); err != nil {
		log.Printf("Database health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	userCount, err := database.GetUserCount()
	if err != nil {
		log.Printf("Database health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"userCount": userCount,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
