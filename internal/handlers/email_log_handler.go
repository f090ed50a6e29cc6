package handlers

import (
	"net/http"
	"strconv"

	"fibuBack/internal/repositories"
	"fibuBack/internal/services"
)

type EmailLogHandler struct {
	Service *services.EmailService
}

func (h *EmailLogHandler) GetEmailLogs(w http.ResponseWriter, r *http.Request) {
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	logs, err := h.Service.GetEmailLogs(r.Context(), scope)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMeta(w, http.StatusOK, logs, map[string]int{"count": len(logs)})
}

func (h *EmailLogHandler) RetryEmail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	if err := h.Service.Retry(r.Context(), scope, id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"requeued": id})
}
