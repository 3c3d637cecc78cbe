package domain

// CallRecord is an immutable entry of the call history log.
type CallRecord struct {
	ID    CallRecordID
	Phone string
	Name  string
	Type  CallType

	// CalledAt is assigned by the store at append time.
	CalledAt Timestamp
}

// NewCallRecord is the input to an append; ID and CalledAt are left for the store.
type NewCallRecord struct {
	Phone string
	Name  string
	Type  CallType
}
