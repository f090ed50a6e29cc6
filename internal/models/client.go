package models

import "time"

// Client types.
const (
	ClientTypeCompany    = "company"
	ClientTypeIndividual = "individual"
)

// Client is a customer the freelancer bills: a company or an individual.
// Clients are soft deleted and belong to exactly one user.
type Client struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Type        string     `json:"type"`
	CompanyName string     `json:"company_name,omitempty"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Street      string     `json:"street,omitempty"`
	PostalCode  string     `json:"postal_code,omitempty"`
	City        string     `json:"city,omitempty"`
	Country     string     `json:"country,omitempty"`
	VATID       string     `json:"vat_id,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// DisplayName returns the company name for companies, otherwise the
// concatenated person name.
func (c Client) DisplayName() string {
	if c.Type == ClientTypeCompany && c.CompanyName != "" {
		return c.CompanyName
	}
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
