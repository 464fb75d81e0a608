package handler

import (
	"encoding/json"
	"net/http"

	"github.com/natthaphonr/account-service/internal/payload"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, payload.MessageResponse{Message: message})
}
