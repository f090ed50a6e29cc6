package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/services"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

// transitionBody is the optional payload of the named transition routes.
type transitionBody struct {
	Status string `json:"status,omitempty"`
	Date   string `json:"date,omitempty"`
}

func (b transitionBody) parseDate(w http.ResponseWriter) (*time.Time, bool) {
	if b.Date == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		respondBadRequest(w, "date must be formatted YYYY-MM-DD")
		return nil, false
	}
	return &parsed, true
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	project.UserID = UserIDFromContext(r.Context())
	created, err := h.Service.CreateProject(r.Context(), project)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	projects, err := h.Service.GetProjects(r.Context(), scope)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMeta(w, http.StatusOK, projects, map[string]int{"count": len(projects)})
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	project, err := h.Service.GetProjectByID(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	project.ID = id
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	updated, err := h.Service.UpdateProject(r.Context(), scope, project)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	if err := h.Service.DeleteProject(r.Context(), scope, id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"deleted": id})
}

func (h *ProjectHandler) SendOffer(w http.ResponseWriter, r *http.Request) {
	h.named(w, r, func(scope repositories.Scope, id int) (models.Project, error) {
		return h.Service.SendOffer(r.Context(), scope, id)
	})
}

func (h *ProjectHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	h.named(w, r, func(scope repositories.Scope, id int) (models.Project, error) {
		return h.Service.AcceptOffer(r.Context(), scope, id)
	})
}

func (h *ProjectHandler) DeclineOffer(w http.ResponseWriter, r *http.Request) {
	h.named(w, r, func(scope repositories.Scope, id int) (models.Project, error) {
		return h.Service.DeclineOffer(r.Context(), scope, id)
	})
}

func (h *ProjectHandler) StartProject(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var body transitionBody
	json.NewDecoder(r.Body).Decode(&body)
	date, ok := body.parseDate(w)
	if !ok {
		return
	}
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	project, err := h.Service.StartProject(r.Context(), scope, id, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, project)
}

func (h *ProjectHandler) CompleteProject(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var body transitionBody
	json.NewDecoder(r.Body).Decode(&body)
	date, ok := body.parseDate(w)
	if !ok {
		return
	}
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	project, err := h.Service.CompleteProject(r.Context(), scope, id, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, project)
}

func (h *ProjectHandler) ReopenProject(w http.ResponseWriter, r *http.Request) {
	h.named(w, r, func(scope repositories.Scope, id int) (models.Project, error) {
		return h.Service.ReopenProject(r.Context(), scope, id)
	})
}

func (h *ProjectHandler) CancelProject(w http.ResponseWriter, r *http.Request) {
	h.named(w, r, func(scope repositories.Scope, id int) (models.Project, error) {
		return h.Service.CancelProject(r.Context(), scope, id)
	})
}

func (h *ProjectHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var body transitionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	date, ok := body.parseDate(w)
	if !ok {
		return
	}
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	project, err := h.Service.TransitionTo(r.Context(), scope, id, body.Status, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, project)
}

func (h *ProjectHandler) named(w http.ResponseWriter, r *http.Request, fn func(repositories.Scope, int) (models.Project, error)) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	project, err := fn(scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, project)
}
