package callsession

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/sipcall/internal/domain"
	"github.com/PabloGalante/sipcall/internal/observability"
)

// Synchronizer is what a session needs from the directory/history layer.
type Synchronizer interface {
	Resolve(ctx context.Context, phone string) domain.Resolution
	RecordSessionOutcome(ctx context.Context, session domain.CallSession) (domain.CallRecordID, error)
}

// Controller owns a single call session and drives its state machine:
//
//	dialing  -> connected -> ended
//	ringing  -> connected -> ended
//	dialing|ringing -> ended            (cancel / reject)
//	dialing|ringing -> failed -> ended  (session I/O failure)
//
// Entering ended appends exactly one history record through the Synchronizer.
// A Controller is safe for concurrent use.
type Controller struct {
	syncer Synchronizer
	now    func() time.Time

	mu        sync.Mutex
	session   domain.CallSession
	recordID  domain.CallRecordID
	observers []func(domain.CallSession)

	resolved chan struct{}
	onEnded  func(*Controller)
}

func newController(syncer Synchronizer, now func() time.Time, dir domain.Direction, phone string) *Controller {
	status := domain.StatusDialing
	if dir == domain.DirectionIncoming {
		status = domain.StatusRinging
	}

	return &Controller{
		syncer: syncer,
		now:    now,
		session: domain.CallSession{
			ID:          domain.SessionID(uuid.NewString()),
			TargetPhone: phone,
			Direction:   dir,
			Status:      status,
			StartedAt:   now(),
		},
		resolved: make(chan struct{}),
	}
}

// startResolution looks the target phone up in the background. The result is
// attached to the session whenever it arrives; it never blocks a transition.
func (c *Controller) startResolution(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	phone := c.session.TargetPhone

	go func() {
		defer close(c.resolved)

		res := c.syncer.Resolve(ctx, phone)
		if !res.IsKnown() {
			return
		}

		name := res.DisplayName()
		c.mu.Lock()
		c.session.ResolvedContactName = &name
		snap := c.session
		c.mu.Unlock()

		c.notify(snap)
	}()
}

// ID is the session id, fixed at creation.
func (c *Controller) ID() domain.SessionID {
	return c.session.ID
}

// Snapshot returns the current session value.
func (c *Controller) Snapshot() domain.CallSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Resolved is closed once contact resolution has finished, successful or not.
func (c *Controller) Resolved() <-chan struct{} {
	return c.resolved
}

// RecordID returns the history record written when the session ended.
func (c *Controller) RecordID() (domain.CallRecordID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recordID, c.recordID != ""
}

// OnChange registers fn to receive a snapshot after every change:
// transitions (failed included), resolution, mute and speaker toggles.
func (c *Controller) OnChange(fn func(domain.CallSession)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Controller) notify(snaps ...domain.CallSession) {
	c.mu.Lock()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	for _, snap := range snaps {
		for _, fn := range observers {
			fn(snap)
		}
	}
}

// MarkConnected records that the remote party answered an outgoing call.
func (c *Controller) MarkConnected(ctx context.Context) error {
	return c.connect(ctx, "mark connected", domain.StatusDialing)
}

// AcceptIncoming answers a ringing incoming call.
func (c *Controller) AcceptIncoming(ctx context.Context) error {
	return c.connect(ctx, "accept incoming", domain.StatusRinging)
}

// RejectIncoming ends a ringing call without connecting it.
func (c *Controller) RejectIncoming(ctx context.Context) error {
	return c.end(ctx, "reject incoming", "", domain.StatusRinging)
}

// CancelOutgoing ends a dialing call without connecting it.
func (c *Controller) CancelOutgoing(ctx context.Context) error {
	return c.end(ctx, "cancel outgoing", "", domain.StatusDialing)
}

// Terminate hangs up a connected call.
func (c *Controller) Terminate(ctx context.Context) error {
	return c.end(ctx, "terminate", "", domain.StatusConnected)
}

// Fail moves a dialing or ringing session through failed to ended. It is for
// real session I/O failures; contact lookup problems never get here.
func (c *Controller) Fail(ctx context.Context, reason string) error {
	if reason == "" {
		reason = "session failure"
	}
	return c.end(ctx, "fail", reason, domain.StatusDialing, domain.StatusRinging)
}

// Hangup ends the session from whatever live state it is in. The state is
// read and changed under one lock, so a concurrent connect cannot slip in
// between. Hanging up an ended session is a no-op. Used when the owning
// screen is abandoned or another call preempts this one.
func (c *Controller) Hangup(ctx context.Context) error {
	err := c.end(ctx, "hang up", "", domain.StatusDialing, domain.StatusRinging, domain.StatusConnected)
	if errors.Is(err, domain.ErrInvalidTransition) {
		// every live status is accepted above, so the session already ended
		return nil
	}
	return err
}

// ToggleMute flips the muted flag and returns the new value. Once the session
// has ended it is a no-op returning the current value.
func (c *Controller) ToggleMute() bool {
	return c.toggle(func(s *domain.CallSession) *bool { return &s.Muted })
}

// ToggleSpeaker flips the speaker flag, with the same rules as ToggleMute.
func (c *Controller) ToggleSpeaker() bool {
	return c.toggle(func(s *domain.CallSession) *bool { return &s.SpeakerOn })
}

func (c *Controller) toggle(field func(*domain.CallSession) *bool) bool {
	c.mu.Lock()
	flag := field(&c.session)
	if !c.session.Status.Live() {
		v := *flag
		c.mu.Unlock()
		return v
	}
	*flag = !*flag
	v := *flag
	snap := c.session
	c.mu.Unlock()

	c.notify(snap)
	return v
}

func (c *Controller) connect(ctx context.Context, op string, from domain.CallStatus) error {
	c.mu.Lock()
	if c.session.Status != from {
		err := c.invalid(op)
		c.mu.Unlock()
		return err
	}
	now := c.now()
	c.session.Status = domain.StatusConnected
	c.session.ConnectedAt = &now
	snap := c.session
	c.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("call connected",
		"session_id", snap.ID,
		"direction", snap.Direction,
	)
	c.notify(snap)
	return nil
}

// end moves the session to ended (through failed when reason is set) and
// records the outcome. ended is terminal, so this runs once per session.
func (c *Controller) end(ctx context.Context, op, reason string, from ...domain.CallStatus) error {
	c.mu.Lock()
	if !slices.Contains(from, c.session.Status) {
		err := c.invalid(op)
		c.mu.Unlock()
		return err
	}

	var snaps []domain.CallSession
	if reason != "" {
		c.session.Status = domain.StatusFailed
		c.session.FailureReason = reason
		snaps = append(snaps, c.session)
	}

	endedAt := c.now()
	if c.session.ConnectedAt != nil && endedAt.Before(*c.session.ConnectedAt) {
		endedAt = *c.session.ConnectedAt
	}
	c.session.Status = domain.StatusEnded
	c.session.EndedAt = &endedAt
	final := c.session
	snaps = append(snaps, final)

	c.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With(
		"session_id", final.ID,
		"phone", final.TargetPhone,
		"op", op,
	)
	log.Info("call ended", "outcome", final.Outcome(), "duration_ms", final.Duration().Milliseconds(), "failure_reason", reason)

	c.notify(snaps...)
	if c.onEnded != nil {
		c.onEnded(c)
	}

	id, err := c.syncer.RecordSessionOutcome(context.WithoutCancel(ctx), final)
	if err != nil {
		log.Error("call ended but history was not written", "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	c.recordID = id
	c.mu.Unlock()
	return nil
}

// invalid must be called with c.mu held.
func (c *Controller) invalid(op string) error {
	return fmt.Errorf("%s from %s: %w", op, c.session.Status, domain.ErrInvalidTransition)
}
