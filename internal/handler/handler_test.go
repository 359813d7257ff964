package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alamal-ev/website/internal/database"
	"github.com/alamal-ev/website/internal/locale"
	"github.com/alamal-ev/website/internal/store"
)

var errMailDown = errors.New("relay unreachable")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStores(t *testing.T) (*store.MemberStore, *store.EducationStore, *store.AuthTokenStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewMemberStore(db), store.NewEducationStore(db), store.NewAuthTokenStore(db)
}

// fakeMailer records sends and optionally fails them.
type fakeMailer struct {
	magicLinks    []string
	confirmations []string
	lastToken     string
	lastLocale    locale.Locale
	err           error
}

func (f *fakeMailer) SendMagicLink(_ context.Context, to string, loc locale.Locale, token string) error {
	if f.err != nil {
		return f.err
	}
	f.magicLinks = append(f.magicLinks, to)
	f.lastToken = token
	f.lastLocale = loc
	return nil
}

func (f *fakeMailer) SendMembershipConfirmation(_ context.Context, to string, loc locale.Locale, _, token string) error {
	if f.err != nil {
		return f.err
	}
	f.confirmations = append(f.confirmations, to)
	f.lastToken = token
	f.lastLocale = loc
	return nil
}

func (f *fakeMailer) SendEducationConfirmation(_ context.Context, to string, loc locale.Locale, _, token string) error {
	if f.err != nil {
		return f.err
	}
	f.confirmations = append(f.confirmations, to)
	f.lastToken = token
	f.lastLocale = loc
	return nil
}
