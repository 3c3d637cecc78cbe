package domain

import "time"

// CallStatus is the application-level state of a call session.
type CallStatus string

const (
	StatusIdle      CallStatus = "idle"
	StatusDialing   CallStatus = "dialing"
	StatusRinging   CallStatus = "ringing"
	StatusConnected CallStatus = "connected"
	StatusFailed    CallStatus = "failed"
	StatusEnded     CallStatus = "ended"
)

// Live reports whether the session can still change (mute, speaker, transitions).
func (s CallStatus) Live() bool {
	switch s {
	case StatusDialing, StatusRinging, StatusConnected:
		return true
	}
	return false
}

// CallSession is the in-progress state of a single call. It is never persisted.
// Consumers receive it by value from the controller that owns it.
type CallSession struct {
	ID                  SessionID
	TargetPhone         string
	ResolvedContactName *string
	Direction           Direction
	Status              CallStatus

	StartedAt   Timestamp
	ConnectedAt *Timestamp
	EndedAt     *Timestamp

	Muted     bool
	SpeakerOn bool

	// FailureReason is set when the session went through the failed state.
	FailureReason string
}

// WasConnected reports whether the session ever reached connected.
func (s CallSession) WasConnected() bool {
	return s.ConnectedAt != nil
}

// Duration is EndedAt - ConnectedAt, or zero when the call never connected
// or has not ended yet.
func (s CallSession) Duration() time.Duration {
	if s.ConnectedAt == nil || s.EndedAt == nil {
		return 0
	}
	d := s.EndedAt.Sub(*s.ConnectedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Outcome is the call type the history log records for this session.
func (s CallSession) Outcome() CallType {
	if !s.WasConnected() {
		return CallMissed
	}
	if s.Direction == DirectionIncoming {
		return CallIncoming
	}
	return CallOutgoing
}

// ContactName returns the resolved name, or "" for an unknown caller.
func (s CallSession) ContactName() string {
	if s.ResolvedContactName == nil {
		return ""
	}
	return *s.ResolvedContactName
}
