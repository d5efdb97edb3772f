package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/safar/jewelry-store/internal/schema"
	"github.com/safar/jewelry-store/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}

// respondFailure maps a decode or store error to a status code: 400 for bad
// input, 503 when the database is missing or unreachable, 500 otherwise.
func respondFailure(w http.ResponseWriter, err error) {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"detail": verr.Error(),
			"errors": verr.Fields,
		})
		return
	}

	var perr *store.PersistenceError
	if errors.As(err, &perr) && perr.Transient() {
		log.Printf("Database unavailable: %v", err)
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	log.Printf("Request failed: %v", err)
	respondError(w, http.StatusInternalServerError, err.Error())
}
