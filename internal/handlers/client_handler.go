package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/services"
)

type ClientHandler struct {
	Service *services.ClientService
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	client.UserID = UserIDFromContext(r.Context())
	created, err := h.Service.CreateClient(r.Context(), client)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	clients, err := h.Service.GetClients(r.Context(), scope)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMeta(w, http.StatusOK, clients, map[string]int{"count": len(clients)})
}

func (h *ClientHandler) GetClientByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	client, err := h.Service.GetClientByID(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, client)
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	client.ID = id
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	updated, err := h.Service.UpdateClient(r.Context(), scope, client)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	if err := h.Service.DeleteClient(r.Context(), scope, id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"deleted": id})
}
