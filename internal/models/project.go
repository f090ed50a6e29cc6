package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project billing types.
const (
	ProjectTypeFixed  = "fixed"
	ProjectTypeHourly = "hourly"
)

// Project is an offer/engagement for a client. It starts life as an offer
// (draft/sent/accepted/declined) and becomes a running engagement once
// accepted. Pricing is either a fixed price or an hourly rate, never both.
type Project struct {
	ID              int              `json:"id"`
	UserID          int              `json:"user_id"`
	ClientID        int              `json:"client_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Type            string           `json:"type"`
	FixedPrice      *decimal.Decimal `json:"fixed_price,omitempty"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate,omitempty"`
	Status          string           `json:"status"`
	OfferValidUntil *time.Time       `json:"offer_valid_until,omitempty"`
	OfferSentAt     *time.Time       `json:"offer_sent_at,omitempty"`
	OfferAcceptedAt *time.Time       `json:"offer_accepted_at,omitempty"`
	StartDate       *time.Time       `json:"start_date,omitempty"`
	EndDate         *time.Time       `json:"end_date,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       *time.Time       `json:"updated_at,omitempty"`

	Items []ProjectItem `json:"items,omitempty"`
}

// ProjectItem is one ordered position of an offer.
type ProjectItem struct {
	ID          int             `json:"id"`
	ProjectID   int             `json:"project_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Position    int             `json:"position"`
}
