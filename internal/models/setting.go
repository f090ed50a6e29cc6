package models

import "time"

// Setting keys read by the billing core.
const (
	SettingDefaultVATRate   = "default_vat_rate"
	SettingPaymentTermsDays = "payment_terms_days"
)

// Setting is one per-user key/value pair.
type Setting struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
