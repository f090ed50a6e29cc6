package handlers

import (
	"encoding/json"
	"net/http"

	"fibuBack/internal/services"
)

type SettingsHandler struct {
	Service *services.SettingsService
}

func (h *SettingsHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get(":key")
	value, err := h.Service.Get(r.Context(), UserIDFromContext(r.Context()), key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (h *SettingsHandler) SetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get(":key")
	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := h.Service.Set(r.Context(), UserIDFromContext(r.Context()), key, body.Value); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"key": key, "value": body.Value})
}
