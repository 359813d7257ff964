package model

import "time"

// Membership lifecycle states. Cancelled rows additionally carry a
// deleted_at timestamp; they are never removed.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

type Member struct {
	ID            int64  `json:"id"`
	MemberNumber  string `json:"member_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	BirthDate     string `json:"birth_date"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	PostalCode    string `json:"postal_code"`
	City          string `json:"city"`

	AccountHolder string `json:"account_holder"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic"`
	BankName      string `json:"bank_name"`
	SEPAMandate   bool   `json:"sepa_mandate"`

	Status            string     `json:"status"`
	ConfirmationToken *string    `json:"-"`
	ConfirmedAt       *time.Time `json:"confirmed_at"`
	LastLoginAt       *time.Time `json:"last_login_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"-"`
}
