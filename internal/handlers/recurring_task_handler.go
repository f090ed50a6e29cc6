package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/services"
)

type RecurringTaskHandler struct {
	Service *services.RecurringTaskService
}

func (h *RecurringTaskHandler) CreateRecurringTask(w http.ResponseWriter, r *http.Request) {
	var task models.RecurringTask
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	task.UserID = UserIDFromContext(r.Context())
	created, err := h.Service.CreateRecurringTask(r.Context(), task)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *RecurringTaskHandler) GetRecurringTasks(w http.ResponseWriter, r *http.Request) {
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	tasks, err := h.Service.GetRecurringTasks(r.Context(), scope)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMeta(w, http.StatusOK, tasks, map[string]int{"count": len(tasks)})
}

func (h *RecurringTaskHandler) GetRecurringTaskByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	task, err := h.Service.GetRecurringTaskByID(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, task)
}

func (h *RecurringTaskHandler) UpdateRecurringTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var task models.RecurringTask
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	task.ID = id
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	updated, err := h.Service.UpdateRecurringTask(r.Context(), scope, task)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *RecurringTaskHandler) DeleteRecurringTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	if err := h.Service.DeleteRecurringTask(r.Context(), scope, id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"deleted": id})
}

func (h *RecurringTaskHandler) PauseTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	task, err := h.Service.Pause(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, task)
}

func (h *RecurringTaskHandler) ResumeTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	task, err := h.Service.Resume(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, task)
}

func (h *RecurringTaskHandler) SkipOccurrence(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var body struct {
		Reason string `json:"reason,omitempty"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	task, err := h.Service.SkipOccurrence(r.Context(), scope, id, body.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, task)
}

func (h *RecurringTaskHandler) CompleteOccurrence(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	task, err := h.Service.CompleteOccurrence(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, task)
}

func (h *RecurringTaskHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	logs, err := h.Service.GetLogs(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMeta(w, http.StatusOK, logs, map[string]int{"count": len(logs)})
}
