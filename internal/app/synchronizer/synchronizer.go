package synchronizer

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/PabloGalante/sipcall/internal/domain"
	"github.com/PabloGalante/sipcall/internal/observability"
)

// ContactFinder is the part of the directory the synchronizer reads.
type ContactFinder interface {
	FindByPhone(ctx context.Context, phone string) (*domain.Contact, error)
}

// HistoryAppender is the part of the history log the synchronizer writes.
type HistoryAppender interface {
	Append(ctx context.Context, phone, name string, typ domain.CallType) (domain.CallRecordID, error)
}

// Synchronizer coordinates the directory and the history log around a call.
// It holds no state of its own besides in-flight lookups.
type Synchronizer struct {
	contacts ContactFinder
	history  HistoryAppender
	lookups  singleflight.Group
}

func New(contacts ContactFinder, history HistoryAppender) *Synchronizer {
	return &Synchronizer{
		contacts: contacts,
		history:  history,
	}
}

// Resolve looks phone up in the directory. Any failure collapses to Unknown;
// it never returns an error. Concurrent lookups of the same phone share one
// store round trip.
func (s *Synchronizer) Resolve(ctx context.Context, phone string) domain.Resolution {
	log := observability.LoggerFromContext(ctx).With("phone", phone)

	v, err, shared := s.lookups.Do(phone, func() (any, error) {
		return s.contacts.FindByPhone(ctx, phone)
	})
	if err != nil {
		log.Warn("contact resolution failed, treating caller as unknown", "error", err)
		return domain.Unknown()
	}

	c, _ := v.(*domain.Contact)
	if c == nil {
		log.Info("no contact for phone")
		return domain.Unknown()
	}

	log.Info("contact resolved", "contact_id", c.ID, "shared", shared)
	return domain.Known(*c)
}

// RecordSessionOutcome appends the single history record for an ended session:
// phone is the target, name is the resolved name or "", and the type is missed
// unless the call connected. Store failures are returned to the caller.
func (s *Synchronizer) RecordSessionOutcome(ctx context.Context, session domain.CallSession) (domain.CallRecordID, error) {
	if session.Status != domain.StatusEnded {
		return "", fmt.Errorf("record outcome of session %s in state %s: %w", session.ID, session.Status, domain.ErrInvalidTransition)
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"phone", session.TargetPhone,
		"direction", session.Direction,
	)

	typ := session.Outcome()
	id, err := s.history.Append(ctx, session.TargetPhone, session.ContactName(), typ)
	if err != nil {
		log.Error("failed to record session outcome", "error", err)
		return "", err
	}

	log.Info("session outcome recorded", "record_id", id, "type", typ, "duration_ms", session.Duration().Milliseconds())
	return id, nil
}
