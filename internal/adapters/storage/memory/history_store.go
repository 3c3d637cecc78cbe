package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/sipcall/internal/domain"
)

// HistoryStore is an in-memory, append-only implementation of domain.CallHistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records []*domain.CallRecord
	clock   *serverClock
}

func NewHistoryStore() *HistoryStore {
	return NewHistoryStoreWithClock(time.Now)
}

func NewHistoryStoreWithClock(now func() time.Time) *HistoryStore {
	return &HistoryStore{clock: newServerClock(now)}
}

func (s *HistoryStore) AppendCallRecord(_ context.Context, rec domain.NewCallRecord) (*domain.CallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := &domain.CallRecord{
		ID:       domain.CallRecordID(uuid.NewString()),
		Phone:    rec.Phone,
		Name:     rec.Name,
		Type:     rec.Type,
		CalledAt: s.clock.stamp(),
	}
	s.records = append(s.records, stored)

	out := *stored
	return &out, nil
}

// ListCallRecords returns the newest record first, like an order-by-desc query.
func (s *HistoryStore) ListCallRecords(_ context.Context) ([]*domain.CallRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.CallRecord, 0, len(s.records))
	for _, r := range s.records {
		cp := *r
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CalledAt.After(out[j].CalledAt)
	})
	return out, nil
}

func (s *HistoryStore) DeleteCallRecord(_ context.Context, id domain.CallRecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return nil
}
