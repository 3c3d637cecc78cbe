package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/PabloGalante/sipcall/internal/domain"
)

var (
	_ domain.ContactStore     = (*Store)(nil)
	_ domain.CallHistoryStore = (*Store)(nil)
)

func (s *Store) AppendCallRecord(ctx context.Context, rec domain.NewCallRecord) (*domain.CallRecord, error) {
	stored := &domain.CallRecord{
		ID:    domain.CallRecordID(uuid.NewString()),
		Phone: rec.Phone,
		Name:  rec.Name,
		Type:  rec.Type,
	}

	stmt := `INSERT INTO call_history (id, phone, name, type)
		VALUES (` + s.placeholders(4) + `)
		RETURNING called_at`

	var calledAt int64
	if err := s.db.QueryRowContext(ctx, stmt,
		string(stored.ID), stored.Phone, stored.Name, string(stored.Type),
	).Scan(&calledAt); err != nil {
		return nil, fmt.Errorf("failed to append call record: %w", err)
	}

	stored.CalledAt = fromMillis(calledAt)
	return stored, nil
}

// ListCallRecords orders by called_at and falls back to insertion order for
// records stamped in the same millisecond.
func (s *Store) ListCallRecords(ctx context.Context) ([]*domain.CallRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, phone, name, type, called_at
		FROM call_history
		ORDER BY called_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query call history: %w", err)
	}
	defer rows.Close()

	list := make([]*domain.CallRecord, 0)
	for rows.Next() {
		var (
			r        domain.CallRecord
			id, typ  string
			calledAt int64
		)
		if err := rows.Scan(&id, &r.Phone, &r.Name, &typ, &calledAt); err != nil {
			return nil, fmt.Errorf("failed to scan call record: %w", err)
		}
		r.ID = domain.CallRecordID(id)
		r.Type = domain.CallType(typ)
		r.CalledAt = fromMillis(calledAt)
		list = append(list, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate call history: %w", err)
	}
	return list, nil
}

func (s *Store) DeleteCallRecord(ctx context.Context, id domain.CallRecordID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM call_history WHERE id = `+s.placeholder(1), string(id)); err != nil {
		return fmt.Errorf("failed to delete call record: %w", err)
	}
	return nil
}
