package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/sipcall/internal/domain"
)

// ContactStore is an in-memory implementation of domain.ContactStore.
// It is NOT persistent and is only suitable for development / tests.
type ContactStore struct {
	mu       sync.RWMutex
	contacts map[domain.ContactID]*domain.Contact
	order    []domain.ContactID
	clock    *serverClock
}

func NewContactStore() *ContactStore {
	return NewContactStoreWithClock(time.Now)
}

// NewContactStoreWithClock lets tests control the CreatedAt stamps.
func NewContactStoreWithClock(now func() time.Time) *ContactStore {
	return &ContactStore{
		contacts: make(map[domain.ContactID]*domain.Contact),
		clock:    newServerClock(now),
	}
}

func (s *ContactStore) CreateContact(_ context.Context, c *domain.Contact) (*domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	stored.ID = domain.ContactID(uuid.NewString())
	stored.CreatedAt = s.clock.stamp()

	s.contacts[stored.ID] = &stored
	s.order = append(s.order, stored.ID)

	out := stored
	return &out, nil
}

func (s *ContactStore) ListContacts(_ context.Context) ([]*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Contact, 0, len(s.order))
	for _, id := range s.order {
		c := *s.contacts[id]
		out = append(out, &c)
	}
	return out, nil
}

func (s *ContactStore) GetContact(_ context.Context, id domain.ContactID) (*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contacts[id]
	if !ok {
		return nil, domain.NotFound("contact", string(id))
	}
	out := *c
	return &out, nil
}

// FindContactsByPhone walks contacts in creation order, so the earliest
// created match comes first.
func (s *ContactStore) FindContactsByPhone(_ context.Context, phone string, limit int) ([]*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Contact
	for _, id := range s.order {
		c := s.contacts[id]
		if c.Phone != phone {
			continue
		}
		cp := *c
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *ContactStore) UpdateContact(_ context.Context, id domain.ContactID, patch domain.ContactPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok {
		return domain.NotFound("contact", string(id))
	}
	updated := patch.Apply(*c)
	s.contacts[id] = &updated
	return nil
}

func (s *ContactStore) DeleteContact(_ context.Context, id domain.ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[id]; !ok {
		return nil
	}
	delete(s.contacts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
