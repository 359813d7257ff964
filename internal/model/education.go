package model

import "time"

// Estimated course levels for students.
const (
	LevelPreparatory = "preparatory"
	Level1           = "level1"
	Level2           = "level2"
	Level3           = "level3"
	Level4           = "level4"
)

// ResponsiblePerson is the optional secondary contact on an education
// registration. All fields live as nullable columns on the requester row.
type ResponsiblePerson struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
}

type EducationRequester struct {
	ID             int64  `json:"id"`
	RegisterNumber string `json:"register_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	BirthDate      string `json:"birth_date"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Street         string `json:"street"`
	PostalCode     string `json:"postal_code"`
	City           string `json:"city"`

	Responsible *ResponsiblePerson `json:"responsible,omitempty"`

	AccountHolder string `json:"account_holder"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic"`
	BankName      string `json:"bank_name"`
	SEPAMandate   bool   `json:"sepa_mandate"`

	ConsentPhotosWebsite bool `json:"consent_photos_website"`
	ConsentPhotosPrint   bool `json:"consent_photos_print"`
	ConsentPhotosSocial  bool `json:"consent_photos_social"`
	RulesAccepted        bool `json:"rules_accepted"`

	Status            string     `json:"status"`
	ConfirmationToken *string    `json:"-"`
	ConfirmedAt       *time.Time `json:"confirmed_at"`
	LastLoginAt       *time.Time `json:"last_login_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"-"`
}

type Student struct {
	ID          int64      `json:"id"`
	RequesterID int64      `json:"requester_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	BirthDate   string     `json:"birth_date"`
	Level       string     `json:"level"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// ValidLevel reports whether s is one of the known course levels.
func ValidLevel(s string) bool {
	switch s {
	case LevelPreparatory, Level1, Level2, Level3, Level4:
		return true
	}
	return false
}
