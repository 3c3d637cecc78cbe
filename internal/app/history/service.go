package history

import (
	"context"
	"strings"

	"github.com/PabloGalante/sipcall/internal/domain"
	"github.com/PabloGalante/sipcall/internal/observability"
)

// Service holds the logic of the append-only call history log.
type Service struct {
	store domain.CallHistoryStore
}

// NewService creates a history service from a CallHistoryStore
func NewService(store domain.CallHistoryStore) *Service {
	return &Service{
		store: store,
	}
}

// Append stores a new record and returns its id. The store assigns CalledAt.
func (s *Service) Append(ctx context.Context, phone, name string, typ domain.CallType) (domain.CallRecordID, error) {
	if strings.TrimSpace(phone) == "" {
		return "", &domain.ValidationError{Field: "phone", Reason: "must not be blank"}
	}
	if !typ.Valid() {
		return "", &domain.ValidationError{Field: "type", Reason: "must be incoming, outgoing or missed"}
	}

	log := observability.LoggerFromContext(ctx).With("phone", phone, "type", typ)

	rec, err := s.store.AppendCallRecord(context.WithoutCancel(ctx), domain.NewCallRecord{
		Phone: phone,
		Name:  name,
		Type:  typ,
	})
	if err != nil {
		log.Error("failed to append call record", "error", err)
		return "", domain.ClassifyStoreError("append call record", err)
	}

	log.Info("call record appended", "record_id", rec.ID, "called_at", rec.CalledAt)
	return rec.ID, nil
}

// List returns the log newest first, in the order the store returned it.
func (s *Service) List(ctx context.Context) ([]*domain.CallRecord, error) {
	records, err := s.store.ListCallRecords(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to list call records", "error", err)
		return nil, domain.ClassifyStoreError("list call records", err)
	}
	return records, nil
}

// DeleteOne removes exactly one record. Unknown ids are ignored.
func (s *Service) DeleteOne(ctx context.Context, id domain.CallRecordID) error {
	if err := s.store.DeleteCallRecord(context.WithoutCancel(ctx), id); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to delete call record", "record_id", id, "error", err)
		return domain.ClassifyStoreError("delete call record", err)
	}
	observability.LoggerFromContext(ctx).Info("call record deleted", "record_id", id)
	return nil
}
