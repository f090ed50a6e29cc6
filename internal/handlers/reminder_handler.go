package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/services"
)

type ReminderHandler struct {
	Service *services.ReminderService
}

func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var rem models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&rem); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	rem.UserID = UserIDFromContext(r.Context())
	created, err := h.Service.CreateReminder(r.Context(), rem)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *ReminderHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	reminders, err := h.Service.GetReminders(r.Context(), scope)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMeta(w, http.StatusOK, reminders, map[string]int{"count": len(reminders)})
}

func (h *ReminderHandler) GetReminderByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	rem, err := h.Service.GetReminderByID(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, rem)
}

func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var rem models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&rem); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	rem.ID = id
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	updated, err := h.Service.UpdateReminder(r.Context(), scope, rem)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	if err := h.Service.DeleteReminder(r.Context(), scope, id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"deleted": id})
}

func (h *ReminderHandler) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	rem, err := h.Service.Complete(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, rem)
}

func (h *ReminderHandler) SnoozeReminder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var body struct {
		Hours int `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	rem, err := h.Service.Snooze(r.Context(), scope, id, body.Hours)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, rem)
}
