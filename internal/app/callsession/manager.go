package callsession

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/sipcall/internal/domain"
	"github.com/PabloGalante/sipcall/internal/observability"
)

// BusyPolicy decides what happens when a call starts while another is live.
type BusyPolicy string

const (
	// BusyReject refuses the new call with domain.ErrSessionActive.
	BusyReject BusyPolicy = "reject"
	// BusyPreempt hangs up the live call (recording its history) first.
	BusyPreempt BusyPolicy = "preempt"
)

// ParseBusyPolicy accepts "reject" or "preempt"; empty means reject.
func ParseBusyPolicy(s string) (BusyPolicy, error) {
	switch BusyPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", BusyReject:
		return BusyReject, nil
	case BusyPreempt:
		return BusyPreempt, nil
	}
	return "", fmt.Errorf("unknown busy policy %q (want reject or preempt)", s)
}

// Manager holds the single active call session of a client.
type Manager struct {
	syncer Synchronizer
	now    func() time.Time
	policy BusyPolicy

	startMu sync.Mutex // serializes session starts

	mu     sync.Mutex
	active *Controller
}

type Option func(*Manager)

func WithBusyPolicy(p BusyPolicy) Option {
	return func(m *Manager) {
		m.policy = p
	}
}

// WithClock overrides time.Now for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(syncer Synchronizer, opts ...Option) *Manager {
	m := &Manager{
		syncer: syncer,
		now:    time.Now,
		policy: BusyReject,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartOutgoing dials phone: idle -> dialing. Contact resolution starts in
// the background and does not gate the connection.
func (m *Manager) StartOutgoing(ctx context.Context, phone string) (*Controller, error) {
	return m.start(ctx, domain.DirectionOutgoing, phone)
}

// ReceiveIncoming registers an incoming call from phone: idle -> ringing.
func (m *Manager) ReceiveIncoming(ctx context.Context, phone string) (*Controller, error) {
	return m.start(ctx, domain.DirectionIncoming, phone)
}

// Active returns the live session, or nil when the client is idle.
func (m *Manager) Active() *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || !m.active.Snapshot().Status.Live() {
		return nil
	}
	return m.active
}

func (m *Manager) start(ctx context.Context, dir domain.Direction, phone string) (*Controller, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, &domain.ValidationError{Field: "phone", Reason: "must not be blank"}
	}

	m.startMu.Lock()
	defer m.startMu.Unlock()

	log := observability.LoggerFromContext(ctx).With("phone", phone, "direction", dir)

	if prev := m.Active(); prev != nil {
		if m.policy != BusyPreempt {
			log.Warn("call rejected, another session is active", "active_session_id", prev.ID())
			return nil, fmt.Errorf("start %s call: %w", dir, domain.ErrSessionActive)
		}

		log.Info("preempting active session", "active_session_id", prev.ID())
		if err := prev.Hangup(ctx); err != nil {
			// the previous session has ended either way; only its history write failed
			log.Error("preempted session did not record cleanly", "active_session_id", prev.ID(), "error", err)
		}
		if prev.Snapshot().Status.Live() {
			return nil, fmt.Errorf("start %s call: preempted session %s is still live: %w", dir, prev.ID(), domain.ErrSessionActive)
		}
	}

	c := newController(m.syncer, m.now, dir, phone)
	c.onEnded = m.release

	m.mu.Lock()
	m.active = c
	m.mu.Unlock()

	c.startResolution(ctx)

	log.Info("call session started", "session_id", c.ID(), "status", c.Snapshot().Status)
	return c, nil
}

func (m *Manager) release(c *Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == c {
		m.active = nil
	}
}
