package store

import (
	"database/sql"
	"fmt"

	"github.com/alamal-ev/website/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberCols = `id, member_number, first_name, last_name, birth_date, gender, marital_status,
	email, phone, street, postal_code, city,
	account_holder, iban, bic, bank_name, sepa_mandate,
	status, confirmation_token, confirmed_at, last_login_at, created_at, updated_at, deleted_at`

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	var token sql.NullString
	var confirmedAt, lastLoginAt, deletedAt sql.NullTime

	err := scanner.Scan(
		&m.ID, &m.MemberNumber, &m.FirstName, &m.LastName, &m.BirthDate, &m.Gender, &m.MaritalStatus,
		&m.Email, &m.Phone, &m.Street, &m.PostalCode, &m.City,
		&m.AccountHolder, &m.IBAN, &m.BIC, &m.BankName, &m.SEPAMandate,
		&m.Status, &token, &confirmedAt, &lastLoginAt, &m.CreatedAt, &m.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if token.Valid {
		m.ConfirmationToken = &token.String
	}
	if confirmedAt.Valid {
		m.ConfirmedAt = &confirmedAt.Time
	}
	if lastLoginAt.Valid {
		m.LastLoginAt = &lastLoginAt.Time
	}
	if deletedAt.Valid {
		m.DeletedAt = &deletedAt.Time
	}
	return &m, nil
}

// Create inserts a new pending membership row. Status, timestamps and the
// confirmation token come from m; lifecycle columns use their defaults.
func (s *MemberStore) Create(m model.Member) (*model.Member, error) {
	result, err := s.db.Exec(
		`INSERT INTO memberships (member_number, first_name, last_name, birth_date, gender, marital_status,
			email, phone, street, postal_code, city,
			account_holder, iban, bic, bank_name, sepa_mandate, confirmation_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MemberNumber, m.FirstName, m.LastName, m.BirthDate, m.Gender, m.MaritalStatus,
		m.Email, m.Phone, m.Street, m.PostalCode, m.City,
		m.AccountHolder, m.IBAN, m.BIC, m.BankName, m.SEPAMandate, m.ConfirmationToken,
	)
	if err != nil {
		return nil, fmt.Errorf("insert membership: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) GetByID(id int64) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM memberships WHERE id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

// GetByEmail returns the non-deleted membership for an email, or nil.
func (s *MemberStore) GetByEmail(email string) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM memberships WHERE email = ? AND deleted_at IS NULL`, email)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership by email: %w", err)
	}
	return m, nil
}

// GetByConfirmationToken returns the membership carrying the token, or nil.
func (s *MemberStore) GetByConfirmationToken(token string) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM memberships WHERE confirmation_token = ? AND deleted_at IS NULL`, token)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership by token: %w", err)
	}
	return m, nil
}

// EmailExists reports whether a non-deleted membership exists for the email.
func (s *MemberStore) EmailExists(email string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM memberships WHERE email = ? AND deleted_at IS NULL`, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check membership email: %w", err)
	}
	return n > 0, nil
}

// Confirm redeems a confirmation token: the row becomes active, confirmed_at
// is stamped and the token is cleared, all in one conditional update so the
// token can never be redeemed twice. Returns false if no pending row carried
// the token.
func (s *MemberStore) Confirm(token string) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE memberships
		SET status = ?, confirmed_at = datetime('now'), confirmation_token = NULL, updated_at = datetime('now')
		WHERE confirmation_token = ? AND confirmed_at IS NULL AND deleted_at IS NULL`,
		model.StatusActive, token,
	)
	if err != nil {
		return false, fmt.Errorf("confirm membership: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ResetConfirmationToken stores a fresh token on a still-pending row.
func (s *MemberStore) ResetConfirmationToken(id int64, token string) error {
	_, err := s.db.Exec(
		`UPDATE memberships SET confirmation_token = ?, updated_at = datetime('now')
		WHERE id = ? AND confirmed_at IS NULL AND deleted_at IS NULL`,
		token, id,
	)
	if err != nil {
		return fmt.Errorf("reset membership token: %w", err)
	}
	return nil
}

// UpdateMemberParams are the profile fields a member may edit. Email is
// deliberately absent.
type UpdateMemberParams struct {
	FirstName     string
	LastName      string
	BirthDate     string
	Gender        string
	MaritalStatus string
	Phone         string
	Street        string
	PostalCode    string
	City          string
	AccountHolder string
	IBAN          string
	BIC           string
	BankName      string
}

func (s *MemberStore) Update(id int64, p UpdateMemberParams) (*model.Member, error) {
	_, err := s.db.Exec(
		`UPDATE memberships
		SET first_name = ?, last_name = ?, birth_date = ?, gender = ?, marital_status = ?,
			phone = ?, street = ?, postal_code = ?, city = ?,
			account_holder = ?, iban = ?, bic = ?, bank_name = ?, updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`,
		p.FirstName, p.LastName, p.BirthDate, p.Gender, p.MaritalStatus,
		p.Phone, p.Street, p.PostalCode, p.City,
		p.AccountHolder, p.IBAN, p.BIC, p.BankName, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update membership: %w", err)
	}
	return s.GetByID(id)
}

// TouchLastLogin stamps last_login_at on the active membership for an email.
func (s *MemberStore) TouchLastLogin(email string) error {
	_, err := s.db.Exec(
		`UPDATE memberships SET last_login_at = datetime('now') WHERE email = ? AND deleted_at IS NULL`,
		email,
	)
	if err != nil {
		return fmt.Errorf("touch membership last login: %w", err)
	}
	return nil
}

// Cancel soft-deletes the membership for an email and cascades to any
// education registration under the same email, including its students. The
// whole cascade runs in one transaction; rows keep their data. Returns false
// if no active membership matched.
func (s *MemberStore) Cancel(email string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin cancel: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE memberships SET status = ?, deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE email = ? AND deleted_at IS NULL`,
		model.StatusCancelled, email,
	)
	if err != nil {
		return false, fmt.Errorf("cancel membership: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	// Students first, while the requester row is still findable by email.
	_, err = tx.Exec(
		`UPDATE education_students SET deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE deleted_at IS NULL AND requester_id IN
			(SELECT id FROM education_requesters WHERE email = ? AND deleted_at IS NULL)`,
		email,
	)
	if err != nil {
		return false, fmt.Errorf("cancel students: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE education_requesters SET status = ?, deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE email = ? AND deleted_at IS NULL`,
		model.StatusCancelled, email,
	)
	if err != nil {
		return false, fmt.Errorf("cancel education requester: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit cancel: %w", err)
	}
	return true, nil
}
