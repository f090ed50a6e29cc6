package handlers

import (
	"encoding/json"
	"net/http"

	"fibuBack/internal/services"
)

type BatchHandler struct {
	Service *services.BatchService
}

type batchRequest struct {
	Operations []services.BatchOperation `json:"operations"`
}

func (h *BatchHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	result, err := h.Service.Execute(r.Context(), UserIDFromContext(r.Context()), req.Operations)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMeta(w, http.StatusOK, result.Results, map[string]int{
		"succeeded": result.Succeeded,
		"total":     result.Total,
	})
}

func (h *BatchHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	respondData(w, http.StatusOK, h.Service.Validate(req.Operations))
}
