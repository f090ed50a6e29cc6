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

type InvoiceHandler struct {
	Service *services.InvoiceService
}

func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv models.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	inv.UserID = UserIDFromContext(r.Context())
	created, err := h.Service.CreateInvoice(r.Context(), inv)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *InvoiceHandler) CreateFromProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProjectID int `json:"project_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	created, err := h.Service.CreateFromProject(r.Context(), scope, body.ProjectID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *InvoiceHandler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	invoices, err := h.Service.GetInvoices(r.Context(), scope)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMeta(w, http.StatusOK, invoices, map[string]int{"count": len(invoices)})
}

func (h *InvoiceHandler) GetInvoiceByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	inv, err := h.Service.GetInvoiceByID(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var inv models.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	inv.ID = id
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	updated, err := h.Service.UpdateInvoice(r.Context(), scope, inv)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	if err := h.Service.DeleteInvoice(r.Context(), scope, id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"deleted": id})
}

func (h *InvoiceHandler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	inv, err := h.Service.Send(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var body struct {
		PaidAt        string `json:"paid_at,omitempty"`
		PaymentMethod string `json:"payment_method,omitempty"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	var paidAt *time.Time
	if body.PaidAt != "" {
		parsed, err := time.Parse("2006-01-02", body.PaidAt)
		if err != nil {
			respondBadRequest(w, "paid_at must be formatted YYYY-MM-DD")
			return
		}
		paidAt = &parsed
	}
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	inv, err := h.Service.MarkPaid(r.Context(), scope, id, paidAt, body.PaymentMethod)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) CancelInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	scope := repositories.ScopeUser(UserIDFromContext(r.Context()))
	inv, err := h.Service.Cancel(r.Context(), scope, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, inv)
}
