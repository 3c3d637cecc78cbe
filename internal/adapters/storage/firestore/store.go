package firestore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/sipcall/internal/domain"
)

var (
	_ domain.ContactStore     = (*Store)(nil)
	_ domain.CallHistoryStore = (*Store)(nil)
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (SIPCALL_FIRESTORE_PROJECT). When
// FIRESTORE_EMULATOR_HOST is set the client talks to the emulator.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) contactsCol() *firestore.CollectionRef {
	return s.client.Collection("contacts")
}

func (s *Store) historyCol() *firestore.CollectionRef {
	return s.client.Collection("callHistory")
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

// Field names follow the documents already written by the mobile app.
type contactDoc struct {
	Name      string    `firestore:"name"`
	Phone     string    `firestore:"phone"`
	Email     string    `firestore:"email"`
	Company   string    `firestore:"company"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

type callRecordDoc struct {
	Phone    string    `firestore:"phone"`
	Name     string    `firestore:"name"`
	Type     string    `firestore:"type"`
	CalledAt time.Time `firestore:"calledAt,serverTimestamp"`
}

func (d contactDoc) toDomain(id string) *domain.Contact {
	return &domain.Contact{
		ID:        domain.ContactID(id),
		Name:      d.Name,
		Phone:     d.Phone,
		Email:     d.Email,
		Company:   d.Company,
		CreatedAt: d.CreatedAt,
	}
}

func (d callRecordDoc) toDomain(id string) *domain.CallRecord {
	return &domain.CallRecord{
		ID:       domain.CallRecordID(id),
		Phone:    d.Phone,
		Name:     d.Name,
		Type:     domain.CallType(d.Type),
		CalledAt: d.CalledAt,
	}
}

// ─────────────────────────────────────────
// ContactStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	doc := contactDoc{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Company: c.Company,
	}

	ref, wr, err := s.contactsCol().Add(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("firestore CreateContact: %w", err)
	}

	doc.CreatedAt = wr.UpdateTime
	return doc.toDomain(ref.ID), nil
}

func (s *Store) ListContacts(ctx context.Context) ([]*domain.Contact, error) {
	out, err := s.queryContacts(ctx, s.contactsCol().Query, "ListContacts")
	if err != nil {
		return nil, err
	}
	sortByCreation(out)
	return out, nil
}

func (s *Store) GetContact(ctx context.Context, id domain.ContactID) (*domain.Contact, error) {
	snap, err := s.contactsCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NotFound("contact", string(id))
		}
		return nil, fmt.Errorf("firestore GetContact: %w", err)
	}

	var doc contactDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetContact decode: %w", err)
	}
	return doc.toDomain(snap.Ref.ID), nil
}

func (s *Store) FindContactsByPhone(ctx context.Context, phone string, limit int) ([]*domain.Contact, error) {
	// No server-side OrderBy/Limit: ordering on createdAt drops documents
	// that lack the field, and those must still resolve by phone.
	out, err := s.queryContacts(ctx, s.contactsCol().Where("phone", "==", phone), "FindContactsByPhone")
	if err != nil {
		return nil, err
	}
	sortByCreation(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// sortByCreation orders contacts oldest first. Documents written without
// createdAt decode to the zero time and sort ahead of everything else; ties
// fall back to the document id so the order is stable across reads.
func sortByCreation(contacts []*domain.Contact) {
	slices.SortStableFunc(contacts, func(a, b *domain.Contact) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func (s *Store) UpdateContact(ctx context.Context, id domain.ContactID, patch domain.ContactPatch) error {
	var updates []firestore.Update

	add := func(path string, v *string) {
		if v != nil {
			updates = append(updates, firestore.Update{Path: path, Value: *v})
		}
	}
	add("name", patch.Name)
	add("phone", patch.Phone)
	add("email", patch.Email)
	add("company", patch.Company)

	if len(updates) == 0 {
		_, err := s.GetContact(ctx, id)
		return err
	}

	// Update fails with NotFound when the document does not exist.
	if _, err := s.contactsCol().Doc(string(id)).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return domain.NotFound("contact", string(id))
		}
		return fmt.Errorf("firestore UpdateContact: %w", err)
	}
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, id domain.ContactID) error {
	if _, err := s.contactsCol().Doc(string(id)).Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteContact: %w", err)
	}
	return nil
}

func (s *Store) queryContacts(ctx context.Context, q firestore.Query, op string) ([]*domain.Contact, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := make([]*domain.Contact, 0)
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore %s: %w", op, err)
		}

		var doc contactDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode contactDoc: %w", err)
		}
		out = append(out, doc.toDomain(snap.Ref.ID))
	}
	return out, nil
}

// ─────────────────────────────────────────
// CallHistoryStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendCallRecord(ctx context.Context, rec domain.NewCallRecord) (*domain.CallRecord, error) {
	doc := callRecordDoc{
		Phone: rec.Phone,
		Name:  rec.Name,
		Type:  string(rec.Type),
	}

	ref, wr, err := s.historyCol().Add(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("firestore AppendCallRecord: %w", err)
	}

	doc.CalledAt = wr.UpdateTime
	return doc.toDomain(ref.ID), nil
}

func (s *Store) ListCallRecords(ctx context.Context) ([]*domain.CallRecord, error) {
	iter := s.historyCol().OrderBy("calledAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	out := make([]*domain.CallRecord, 0)
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore ListCallRecords: %w", err)
		}

		var doc callRecordDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode callRecordDoc: %w", err)
		}
		out = append(out, doc.toDomain(snap.Ref.ID))
	}
	return out, nil
}

func (s *Store) DeleteCallRecord(ctx context.Context, id domain.CallRecordID) error {
	if _, err := s.historyCol().Doc(string(id)).Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteCallRecord: %w", err)
	}
	return nil
}
