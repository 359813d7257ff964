package store

import (
	"database/sql"
	"testing"

	"github.com/alamal-ev/website/internal/database"
	"github.com/alamal-ev/website/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testMember(email string) model.Member {
	token := "tok-" + email
	return model.Member{
		MemberNumber:      "M2026-" + email[:4],
		FirstName:         "Amina",
		LastName:          "Haddad",
		BirthDate:         "1985-03-12",
		Gender:            "female",
		MaritalStatus:     "married",
		Email:             email,
		Phone:             "+49 30 1234567",
		Street:            "Hauptstr. 5",
		PostalCode:        "10115",
		City:              "Berlin",
		AccountHolder:     "Amina Haddad",
		IBAN:              "DE89370400440532013000",
		BIC:               "COBADEFFXXX",
		BankName:          "Commerzbank",
		SEPAMandate:       true,
		ConfirmationToken: &token,
	}
}

func testRequester(email string) model.EducationRequester {
	token := "edu-tok-" + email
	return model.EducationRequester{
		RegisterNumber:       "E2026-" + email[:4],
		FirstName:            "Karim",
		LastName:             "Haddad",
		BirthDate:            "1982-11-02",
		Email:                email,
		Phone:                "+49 30 7654321",
		Street:               "Hauptstr. 5",
		PostalCode:           "10115",
		City:                 "Berlin",
		AccountHolder:        "Karim Haddad",
		IBAN:                 "DE02120300000000202051",
		BIC:                  "BYLADEM1001",
		BankName:             "DKB",
		SEPAMandate:          true,
		ConsentPhotosWebsite: true,
		RulesAccepted:        true,
		ConfirmationToken:    &token,
	}
}

func testStudents() []NewStudent {
	return []NewStudent{
		{FirstName: "Yusuf", LastName: "Haddad", BirthDate: "2015-06-01", Level: model.LevelPreparatory},
		{FirstName: "Lina", LastName: "Haddad", BirthDate: "2012-09-20", Level: model.Level2},
	}
}
