package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/sipcall/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "sipcall.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenAppliesPragmasAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sipcall.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := Open(Dialect("mysql"), "whatever")
	assert.Error(t, err)
}

func TestContactsRoundTrip(t *testing.T) {
	runContactsRoundTrip(t, openTestStore(t))
}

func TestHistoryRoundTrip(t *testing.T) {
	runHistoryRoundTrip(t, openTestStore(t))
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("SIPCALL_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SIPCALL_TEST_POSTGRES_DSN not set")
	}

	s, err := Open(Postgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.db.Exec("TRUNCATE contacts, call_history")
	require.NoError(t, err)

	runContactsRoundTrip(t, s)
	runHistoryRoundTrip(t, s)
}

func runContactsRoundTrip(t *testing.T, s *Store) {
	ctx := context.Background()

	first, err := s.CreateContact(ctx, &domain.Contact{Name: "Anna", Phone: "0901234567"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := s.CreateContact(ctx, &domain.Contact{Name: "Anna (office)", Phone: "0901234567", Email: "anna@example.com"})
	require.NoError(t, err)

	list, err := s.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "", list[0].Email)
	assert.Equal(t, "", list[0].Company)

	matches, err := s.FindContactsByPhone(ctx, "0901234567", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, first.ID, matches[0].ID)

	matches, err = s.FindContactsByPhone(ctx, "0000000000", 1)
	require.NoError(t, err)
	assert.Empty(t, matches)

	company := "Acme"
	require.NoError(t, s.UpdateContact(ctx, second.ID, domain.ContactPatch{Company: &company}))
	got, err := s.GetContact(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna (office)", got.Name)
	assert.Equal(t, "anna@example.com", got.Email)
	assert.Equal(t, "Acme", got.Company)

	err = s.UpdateContact(ctx, "missing", domain.ContactPatch{Company: &company})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = s.UpdateContact(ctx, "missing", domain.ContactPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.DeleteContact(ctx, first.ID))
	require.NoError(t, s.DeleteContact(ctx, first.ID))

	_, err = s.GetContact(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	matches, err = s.FindContactsByPhone(ctx, "0901234567", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, second.ID, matches[0].ID)
}

func runHistoryRoundTrip(t *testing.T, s *Store) {
	ctx := context.Background()

	a, err := s.AppendCallRecord(ctx, domain.NewCallRecord{Phone: "0901234567", Name: "Anna", Type: domain.CallOutgoing})
	require.NoError(t, err)
	b, err := s.AppendCallRecord(ctx, domain.NewCallRecord{Phone: "0909999999", Type: domain.CallMissed})
	require.NoError(t, err)
	assert.False(t, b.CalledAt.Before(a.CalledAt))

	list, err := s.ListCallRecords(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, "", list[0].Name)
	assert.Equal(t, domain.CallMissed, list[0].Type)
	assert.Equal(t, a.ID, list[1].ID)

	require.NoError(t, s.DeleteCallRecord(ctx, a.ID))
	require.NoError(t, s.DeleteCallRecord(ctx, "unknown"))

	list, err = s.ListCallRecords(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	_, err = s.AppendCallRecord(ctx, domain.NewCallRecord{Phone: "1", Type: domain.CallType("voicemail")})
	assert.Error(t, err)
}
