package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a billing document. The number is unique and year scoped
// ("2026-001"). Subtotal, VAT amount and total are always recomputed from
// the items and the invoice-level VAT rate, never trusted from callers.
// A null vat_rate on input means "use the configured default"; an explicit
// 0 is a valid rate and is kept. Only draft invoices may be structurally
// changed or deleted.
type Invoice struct {
	ID                 int                 `json:"id"`
	UserID             int                 `json:"user_id"`
	ClientID           int                 `json:"client_id"`
	ProjectID          *int                `json:"project_id,omitempty"`
	Number             string              `json:"number"`
	Status             string              `json:"status"`
	IssuedAt           *time.Time          `json:"issued_at,omitempty"`
	DueAt              *time.Time          `json:"due_at,omitempty"`
	SentAt             *time.Time          `json:"sent_at,omitempty"`
	PaidAt             *time.Time          `json:"paid_at,omitempty"`
	PaymentMethod      *string             `json:"payment_method,omitempty"`
	ServicePeriodStart *time.Time          `json:"service_period_start,omitempty"`
	ServicePeriodEnd   *time.Time          `json:"service_period_end,omitempty"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	VATRate            decimal.NullDecimal `json:"vat_rate"`
	VATAmount          decimal.Decimal     `json:"vat_amount"`
	Total              decimal.Decimal     `json:"total"`
	Notes              string              `json:"notes,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          *time.Time          `json:"updated_at,omitempty"`

	Items []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem is one ordered position of an invoice. The per-item vat_rate
// exists for display and export; invoice totals are driven by the single
// invoice-level rate.
type InvoiceItem struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Position    int             `json:"position"`
}
