package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/services"
)

type TimeEntryHandler struct {
	Service *services.TimeEntryService
}

func (h *TimeEntryHandler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.TimeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	entry.UserID = UserIDFromContext(r.Context())
	created, err := h.Service.CreateTimeEntry(r.Context(), entry)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *TimeEntryHandler) GetTimeEntriesByProject(w http.ResponseWriter, r *http.Request) {
	projectID, _ := strconv.Atoi(r.URL.Query().Get(":project_id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	entries, err := h.Service.GetTimeEntriesByProject(r.Context(), scope, projectID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMeta(w, http.StatusOK, entries, map[string]int{"count": len(entries)})
}

func (h *TimeEntryHandler) GetTimeEntryByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	entry, err := h.Service.GetTimeEntryByID(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) UpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var entry models.TimeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	entry.ID = id
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	updated, err := h.Service.UpdateTimeEntry(r.Context(), scope, entry)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *TimeEntryHandler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	if err := h.Service.DeleteTimeEntry(r.Context(), scope, id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"deleted": id})
}

func (h *TimeEntryHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProjectID   int    `json:"project_id"`
		Description string `json:"description,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	entry, err := h.Service.StartTimer(r.Context(), UserIDFromContext(r.Context()), body.ProjectID, body.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, entry)
}

func (h *TimeEntryHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Service.StopTimer(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) GetRunningTimer(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Service.GetRunningTimer(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, models.ErrTimeEntryNotFound) {
			respondData(w, http.StatusOK, nil)
			return
		}
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, entry)
}
