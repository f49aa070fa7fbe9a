package handlers

import (
	"encoding/json"
	"net/http"

	"pizza-service/internal/errdefs"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	respondWithJSON(w, code, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// respondWithDomainError is the single place domain errors become transport
// errors.
func respondWithDomainError(w http.ResponseWriter, err error) {
	respondWithError(w, errdefs.HTTPStatus(err), errdefs.CodeOf(err), errdefs.MessageOf(err))
}
