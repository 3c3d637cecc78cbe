package directory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/sipcall/internal/adapters/storage/memory"
	"github.com/PabloGalante/sipcall/internal/app/directory"
	"github.com/PabloGalante/sipcall/internal/domain"
)

// countingStore records how many calls reach the store and can be told to fail.
type countingStore struct {
	*memory.ContactStore
	calls int
	err   error
}

func (s *countingStore) CreateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.ContactStore.CreateContact(ctx, c)
}

func (s *countingStore) ListContacts(ctx context.Context) ([]*domain.Contact, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.ContactStore.ListContacts(ctx)
}

func newCountingStore() *countingStore {
	return &countingStore{ContactStore: memory.NewContactStore()}
}

func TestCreateThenListHasExactFields(t *testing.T) {
	ctx := context.Background()
	svc := directory.NewService(memory.NewContactStore())

	id, err := svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "0901234567"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Anna", got.Name)
	assert.Equal(t, "0901234567", got.Phone)
	assert.Equal(t, "", got.Email)
	assert.Equal(t, "", got.Company)
}

func TestCreateRejectsBlankFieldsBeforeStore(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	svc := directory.NewService(store)

	for _, in := range []directory.CreateContactInput{
		{Name: "", Phone: "0901234567"},
		{Name: "  \t", Phone: "0901234567"},
		{Name: "Anna", Phone: ""},
		{Name: "Anna", Phone: "   "},
	} {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation, "input %+v", in)
	}
	assert.Zero(t, store.calls)
}

func TestCreateSurfacesTransientStoreError(t *testing.T) {
	store := newCountingStore()
	store.err = errors.New("deadline exceeded")
	svc := directory.NewService(store)

	_, err := svc.Create(context.Background(), directory.CreateContactInput{Name: "Anna", Phone: "0901234567"})
	require.ErrorIs(t, err, domain.ErrTransientStore)

	var serr *domain.StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create contact", serr.Op)
}

func TestCreateCompletesAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := memory.NewContactStore()
	svc := directory.NewService(store)

	_, err := svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "0901234567"})
	require.NoError(t, err)

	list, err := store.ListContacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFindByPhone(t *testing.T) {
	ctx := context.Background()
	svc := directory.NewService(memory.NewContactStore())

	got, err := svc.FindByPhone(ctx, "0900000000")
	require.NoError(t, err)
	assert.Nil(t, got)

	firstID, err := svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "0901234567"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, directory.CreateContactInput{Name: "Anna's office", Phone: "0901234567"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err = svc.FindByPhone(ctx, "0901234567")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, firstID, got.ID)
	}

	// exact match only
	got, err = svc.FindByPhone(ctx, "090 123 4567")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := directory.NewService(memory.NewContactStore())

	id, err := svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "0901234567", Email: "anna@example.com"})
	require.NoError(t, err)

	company := "Acme"
	require.NoError(t, svc.Update(ctx, id, domain.ContactPatch{Company: &company}))

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
	assert.Equal(t, "anna@example.com", got.Email)
	assert.Equal(t, "Acme", got.Company)

	blank := " "
	err = svc.Update(ctx, id, domain.ContactPatch{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.Update(ctx, "does-not-exist", domain.ContactPatch{Company: &company})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Update(ctx, "does-not-exist", domain.ContactPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, svc.Update(ctx, id, domain.ContactPatch{}))
}

func TestUpdateNamesTheBlankField(t *testing.T) {
	ctx := context.Background()
	svc := directory.NewService(memory.NewContactStore())

	id, err := svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "0901234567"})
	require.NoError(t, err)

	blank := "  "
	for field, patch := range map[string]domain.ContactPatch{
		"name":  {Name: &blank},
		"phone": {Phone: &blank},
	} {
		err := svc.Update(ctx, id, patch)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr), field)
		assert.Equal(t, field, verr.Field)
	}

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
	assert.Equal(t, "0901234567", got.Phone)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := directory.NewService(memory.NewContactStore())

	id, err := svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "0901234567"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, "never-existed"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStrictInput(t *testing.T) {
	ctx := context.Background()
	svc := directory.NewService(memory.NewContactStore(), directory.WithStrictInput(true))

	_, err := svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "12345"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "call-me-maybe"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "0901234567", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "+84 (90) 123-4567", Email: "anna@example.com"})
	assert.NoError(t, err)

	// the default service accepts free-text phones
	_, err = directory.NewService(memory.NewContactStore()).Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "12345"})
	assert.NoError(t, err)
}

func TestSearch(t *testing.T) {
	contacts := []*domain.Contact{
		{ID: "1", Name: "Nguyễn Văn Ánh", Phone: "0901234567"},
		{ID: "2", Name: "Binh", Phone: "0911111111"},
		{ID: "3", Name: "Chi", Phone: "0987654321"},
	}

	assert.Len(t, directory.Search(contacts, ""), 3)

	got := directory.Search(contacts, "ÁNH")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ContactID("1"), got[0].ID)

	got = directory.Search(contacts, "0911")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ContactID("2"), got[0].ID)

	assert.Empty(t, directory.Search(contacts, "zzz"))
}
