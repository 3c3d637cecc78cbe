package domain

import "time"

type ContactID string
type CallRecordID string
type SessionID string

// CallType is the kind of entry stored in the call history.
type CallType string

const (
	CallIncoming CallType = "incoming"
	CallOutgoing CallType = "outgoing"
	CallMissed   CallType = "missed"
)

// Valid reports whether t is one of the known call types.
func (t CallType) Valid() bool {
	switch t {
	case CallIncoming, CallOutgoing, CallMissed:
		return true
	}
	return false
}

type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

type Timestamp = time.Time
