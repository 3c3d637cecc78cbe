package directory

import (
	"context"

	"github.com/PabloGalante/sipcall/internal/domain"
	"github.com/PabloGalante/sipcall/internal/observability"
)

// Service is the contact directory. Every call goes to the store; nothing is cached.
type Service struct {
	store       domain.ContactStore
	strictInput bool
}

type Option func(*Service)

// WithStrictInput turns on the contact-form rules (phone charset and length,
// email shape) on top of the non-blank checks.
func WithStrictInput(strict bool) Option {
	return func(s *Service) {
		s.strictInput = strict
	}
}

func NewService(store domain.ContactStore, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateContactInput struct {
	Name    string
	Phone   string
	Email   string
	Company string
}

func (s *Service) Create(ctx context.Context, in CreateContactInput) (domain.ContactID, error) {
	if err := s.validate(in.Name, in.Phone, in.Email); err != nil {
		return "", err
	}

	log := observability.LoggerFromContext(ctx).With("phone", in.Phone)

	created, err := s.store.CreateContact(context.WithoutCancel(ctx), &domain.Contact{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Company: in.Company,
	})
	if err != nil {
		log.Error("failed to create contact", "error", err)
		return "", domain.ClassifyStoreError("create contact", err)
	}

	log.Info("contact created", "contact_id", created.ID)
	return created.ID, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Contact, error) {
	contacts, err := s.store.ListContacts(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to list contacts", "error", err)
		return nil, domain.ClassifyStoreError("list contacts", err)
	}
	return contacts, nil
}

func (s *Service) Get(ctx context.Context, id domain.ContactID) (*domain.Contact, error) {
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return nil, domain.ClassifyStoreError("get contact", err)
	}
	return c, nil
}

// FindByPhone returns the contact whose phone equals phone exactly, or nil.
// When several contacts share the number the earliest created one wins.
func (s *Service) FindByPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	matches, err := s.store.FindContactsByPhone(ctx, phone, 1)
	if err != nil {
		return nil, domain.ClassifyStoreError("find contact by phone", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// Update applies a partial update. Only supplied fields change.
func (s *Service) Update(ctx context.Context, id domain.ContactID, patch domain.ContactPatch) error {
	if err := s.validatePatch(patch); err != nil {
		return err
	}

	log := observability.LoggerFromContext(ctx).With("contact_id", id)

	if patch.IsEmpty() {
		// nothing to write, but a missing id is still reported
		_, err := s.Get(ctx, id)
		return err
	}

	if err := s.store.UpdateContact(context.WithoutCancel(ctx), id, patch); err != nil {
		log.Error("failed to update contact", "error", err)
		return domain.ClassifyStoreError("update contact", err)
	}

	log.Info("contact updated")
	return nil
}

// Delete removes a contact. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id domain.ContactID) error {
	if err := s.store.DeleteContact(context.WithoutCancel(ctx), id); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to delete contact", "contact_id", id, "error", err)
		return domain.ClassifyStoreError("delete contact", err)
	}
	observability.LoggerFromContext(ctx).Info("contact deleted", "contact_id", id)
	return nil
}
