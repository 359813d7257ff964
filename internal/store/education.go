package store

import (
	"database/sql"
	"fmt"

	"github.com/alamal-ev/website/internal/model"
)

type EducationStore struct {
	db *sql.DB
}

func NewEducationStore(db *sql.DB) *EducationStore {
	return &EducationStore{db: db}
}

const requesterCols = `id, register_number, first_name, last_name, birth_date,
	email, phone, street, postal_code, city,
	responsible_first_name, responsible_last_name, responsible_phone,
	responsible_street, responsible_postal_code, responsible_city,
	account_holder, iban, bic, bank_name, sepa_mandate,
	consent_photos_website, consent_photos_print, consent_photos_social, rules_accepted,
	status, confirmation_token, confirmed_at, last_login_at, created_at, updated_at, deleted_at`

func scanRequester(scanner interface{ Scan(...any) error }) (*model.EducationRequester, error) {
	var r model.EducationRequester
	var respFirst, respLast, respPhone, respStreet, respPostal, respCity sql.NullString
	var token sql.NullString
	var confirmedAt, lastLoginAt, deletedAt sql.NullTime

	err := scanner.Scan(
		&r.ID, &r.RegisterNumber, &r.FirstName, &r.LastName, &r.BirthDate,
		&r.Email, &r.Phone, &r.Street, &r.PostalCode, &r.City,
		&respFirst, &respLast, &respPhone, &respStreet, &respPostal, &respCity,
		&r.AccountHolder, &r.IBAN, &r.BIC, &r.BankName, &r.SEPAMandate,
		&r.ConsentPhotosWebsite, &r.ConsentPhotosPrint, &r.ConsentPhotosSocial, &r.RulesAccepted,
		&r.Status, &token, &confirmedAt, &lastLoginAt, &r.CreatedAt, &r.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if respFirst.Valid || respLast.Valid {
		r.Responsible = &model.ResponsiblePerson{
			FirstName:  respFirst.String,
			LastName:   respLast.String,
			Phone:      respPhone.String,
			Street:     respStreet.String,
			PostalCode: respPostal.String,
			City:       respCity.String,
		}
	}
	if token.Valid {
		r.ConfirmationToken = &token.String
	}
	if confirmedAt.Valid {
		r.ConfirmedAt = &confirmedAt.Time
	}
	if lastLoginAt.Valid {
		r.LastLoginAt = &lastLoginAt.Time
	}
	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.Time
	}
	return &r, nil
}

const studentCols = `id, requester_id, first_name, last_name, birth_date, level, created_at, updated_at, deleted_at`

func scanStudent(scanner interface{ Scan(...any) error }) (*model.Student, error) {
	var st model.Student
	var deletedAt sql.NullTime

	err := scanner.Scan(
		&st.ID, &st.RequesterID, &st.FirstName, &st.LastName, &st.BirthDate, &st.Level,
		&st.CreatedAt, &st.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		st.DeletedAt = &deletedAt.Time
	}
	return &st, nil
}

// NewStudent carries the fields of one child on a registration.
type NewStudent struct {
	FirstName string
	LastName  string
	BirthDate string
	Level     string
}

// CreateWithStudents inserts the requester and all students in one
// transaction so a failure mid-sequence leaves no orphaned rows.
func (s *EducationStore) CreateWithStudents(r model.EducationRequester, students []NewStudent) (*model.EducationRequester, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin education insert: %w", err)
	}
	defer tx.Rollback()

	var respFirst, respLast, respPhone, respStreet, respPostal, respCity sql.NullString
	if r.Responsible != nil {
		respFirst = sql.NullString{String: r.Responsible.FirstName, Valid: true}
		respLast = sql.NullString{String: r.Responsible.LastName, Valid: true}
		respPhone = sql.NullString{String: r.Responsible.Phone, Valid: true}
		respStreet = sql.NullString{String: r.Responsible.Street, Valid: true}
		respPostal = sql.NullString{String: r.Responsible.PostalCode, Valid: true}
		respCity = sql.NullString{String: r.Responsible.City, Valid: true}
	}

	result, err := tx.Exec(
		`INSERT INTO education_requesters (register_number, first_name, last_name, birth_date,
			email, phone, street, postal_code, city,
			responsible_first_name, responsible_last_name, responsible_phone,
			responsible_street, responsible_postal_code, responsible_city,
			account_holder, iban, bic, bank_name, sepa_mandate,
			consent_photos_website, consent_photos_print, consent_photos_social, rules_accepted,
			confirmation_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RegisterNumber, r.FirstName, r.LastName, r.BirthDate,
		r.Email, r.Phone, r.Street, r.PostalCode, r.City,
		respFirst, respLast, respPhone, respStreet, respPostal, respCity,
		r.AccountHolder, r.IBAN, r.BIC, r.BankName, r.SEPAMandate,
		r.ConsentPhotosWebsite, r.ConsentPhotosPrint, r.ConsentPhotosSocial, r.RulesAccepted,
		r.ConfirmationToken,
	)
	if err != nil {
		return nil, fmt.Errorf("insert education requester: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, st := range students {
		_, err := tx.Exec(
			`INSERT INTO education_students (requester_id, first_name, last_name, birth_date, level)
			VALUES (?, ?, ?, ?, ?)`,
			id, st.FirstName, st.LastName, st.BirthDate, st.Level,
		)
		if err != nil {
			return nil, fmt.Errorf("insert student: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit education insert: %w", err)
	}
	return s.GetByID(id)
}

func (s *EducationStore) GetByID(id int64) (*model.EducationRequester, error) {
	row := s.db.QueryRow(`SELECT `+requesterCols+` FROM education_requesters WHERE id = ?`, id)
	r, err := scanRequester(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get education requester: %w", err)
	}
	return r, nil
}

// GetByEmail returns the non-deleted requester for an email, or nil.
func (s *EducationStore) GetByEmail(email string) (*model.EducationRequester, error) {
	row := s.db.QueryRow(`SELECT `+requesterCols+` FROM education_requesters WHERE email = ? AND deleted_at IS NULL`, email)
	r, err := scanRequester(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get education requester by email: %w", err)
	}
	return r, nil
}

func (s *EducationStore) GetByConfirmationToken(token string) (*model.EducationRequester, error) {
	row := s.db.QueryRow(`SELECT `+requesterCols+` FROM education_requesters WHERE confirmation_token = ? AND deleted_at IS NULL`, token)
	r, err := scanRequester(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get education requester by token: %w", err)
	}
	return r, nil
}

// EmailExists reports whether a non-deleted requester exists for the email.
func (s *EducationStore) EmailExists(email string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM education_requesters WHERE email = ? AND deleted_at IS NULL`, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check education email: %w", err)
	}
	return n > 0, nil
}

// Confirm redeems an education confirmation token in one conditional update.
// Returns false if no pending row carried the token.
func (s *EducationStore) Confirm(token string) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE education_requesters
		SET status = ?, confirmed_at = datetime('now'), confirmation_token = NULL, updated_at = datetime('now')
		WHERE confirmation_token = ? AND confirmed_at IS NULL AND deleted_at IS NULL`,
		model.StatusActive, token,
	)
	if err != nil {
		return false, fmt.Errorf("confirm education registration: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ResetConfirmationToken stores a fresh token on a still-pending row.
func (s *EducationStore) ResetConfirmationToken(id int64, token string) error {
	_, err := s.db.Exec(
		`UPDATE education_requesters SET confirmation_token = ?, updated_at = datetime('now')
		WHERE id = ? AND confirmed_at IS NULL AND deleted_at IS NULL`,
		token, id,
	)
	if err != nil {
		return fmt.Errorf("reset education token: %w", err)
	}
	return nil
}

// UpdateRequesterParams are the profile fields a requester may edit. Email
// is deliberately absent.
type UpdateRequesterParams struct {
	FirstName     string
	LastName      string
	BirthDate     string
	Phone         string
	Street        string
	PostalCode    string
	City          string
	Responsible   *model.ResponsiblePerson
	AccountHolder string
	IBAN          string
	BIC           string
	BankName      string
}

func (s *EducationStore) Update(id int64, p UpdateRequesterParams) (*model.EducationRequester, error) {
	var respFirst, respLast, respPhone, respStreet, respPostal, respCity sql.NullString
	if p.Responsible != nil {
		respFirst = sql.NullString{String: p.Responsible.FirstName, Valid: true}
		respLast = sql.NullString{String: p.Responsible.LastName, Valid: true}
		respPhone = sql.NullString{String: p.Responsible.Phone, Valid: true}
		respStreet = sql.NullString{String: p.Responsible.Street, Valid: true}
		respPostal = sql.NullString{String: p.Responsible.PostalCode, Valid: true}
		respCity = sql.NullString{String: p.Responsible.City, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE education_requesters
		SET first_name = ?, last_name = ?, birth_date = ?, phone = ?, street = ?, postal_code = ?, city = ?,
			responsible_first_name = ?, responsible_last_name = ?, responsible_phone = ?,
			responsible_street = ?, responsible_postal_code = ?, responsible_city = ?,
			account_holder = ?, iban = ?, bic = ?, bank_name = ?, updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`,
		p.FirstName, p.LastName, p.BirthDate, p.Phone, p.Street, p.PostalCode, p.City,
		respFirst, respLast, respPhone, respStreet, respPostal, respCity,
		p.AccountHolder, p.IBAN, p.BIC, p.BankName, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update education requester: %w", err)
	}
	return s.GetByID(id)
}

// TouchLastLogin stamps last_login_at on the active requester for an email.
func (s *EducationStore) TouchLastLogin(email string) error {
	_, err := s.db.Exec(
		`UPDATE education_requesters SET last_login_at = datetime('now') WHERE email = ? AND deleted_at IS NULL`,
		email,
	)
	if err != nil {
		return fmt.Errorf("touch education last login: %w", err)
	}
	return nil
}

// Cancel soft-deletes the requester for an email together with its students.
// The parent membership, if any, is untouched. Returns false if no active
// requester matched.
func (s *EducationStore) Cancel(email string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin cancel: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE education_students SET deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE deleted_at IS NULL AND requester_id IN
			(SELECT id FROM education_requesters WHERE email = ? AND deleted_at IS NULL)`,
		email,
	)
	if err != nil {
		return false, fmt.Errorf("cancel students: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE education_requesters SET status = ?, deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE email = ? AND deleted_at IS NULL`,
		model.StatusCancelled, email,
	)
	if err != nil {
		return false, fmt.Errorf("cancel education requester: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit cancel: %w", err)
	}
	return true, nil
}

// ListStudents returns the non-deleted students of a requester.
func (s *EducationStore) ListStudents(requesterID int64) ([]model.Student, error) {
	rows, err := s.db.Query(
		`SELECT `+studentCols+` FROM education_students WHERE requester_id = ? AND deleted_at IS NULL ORDER BY id`,
		requesterID,
	)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}

// AddStudent inserts one student under a requester.
func (s *EducationStore) AddStudent(requesterID int64, st NewStudent) (*model.Student, error) {
	result, err := s.db.Exec(
		`INSERT INTO education_students (requester_id, first_name, last_name, birth_date, level)
		VALUES (?, ?, ?, ?, ?)`,
		requesterID, st.FirstName, st.LastName, st.BirthDate, st.Level,
	)
	if err != nil {
		return nil, fmt.Errorf("insert student: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetStudent(id)
}

func (s *EducationStore) GetStudent(id int64) (*model.Student, error) {
	row := s.db.QueryRow(`SELECT `+studentCols+` FROM education_students WHERE id = ?`, id)
	st, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return st, nil
}

// RemoveStudent soft-deletes one student, but only if it belongs to the
// given requester. Returns false when nothing matched.
func (s *EducationStore) RemoveStudent(id, requesterID int64) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE education_students SET deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE id = ? AND requester_id = ? AND deleted_at IS NULL`,
		id, requesterID,
	)
	if err != nil {
		return false, fmt.Errorf("remove student: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ReplaceStudents swaps the requester's student set for the supplied one in
// a single transaction. The current set is soft-deleted, never removed.
func (s *EducationStore) ReplaceStudents(requesterID int64, students []NewStudent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace students: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE education_students SET deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE requester_id = ? AND deleted_at IS NULL`,
		requesterID,
	)
	if err != nil {
		return fmt.Errorf("clear students: %w", err)
	}

	for _, st := range students {
		_, err := tx.Exec(
			`INSERT INTO education_students (requester_id, first_name, last_name, birth_date, level)
			VALUES (?, ?, ?, ?, ?)`,
			requesterID, st.FirstName, st.LastName, st.BirthDate, st.Level,
		)
		if err != nil {
			return fmt.Errorf("insert student: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace students: %w", err)
	}
	return nil
}
