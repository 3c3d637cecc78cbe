package domain

import "context"

// ContactStore defines contact persistence against the remote document store.
// Every call is a round trip; implementations keep no authoritative cache.
type ContactStore interface {
	// CreateContact inserts c, assigning ID and CreatedAt, and returns the stored contact.
	CreateContact(ctx context.Context, c *Contact) (*Contact, error)
	ListContacts(ctx context.Context) ([]*Contact, error)
	// GetContact returns an error matching ErrNotFound when id does not exist.
	GetContact(ctx context.Context, id ContactID) (*Contact, error)
	// FindContactsByPhone returns exact matches, earliest created first.
	FindContactsByPhone(ctx context.Context, phone string, limit int) ([]*Contact, error)
	// UpdateContact applies the patch and fails with ErrNotFound when id does not exist.
	UpdateContact(ctx context.Context, id ContactID, patch ContactPatch) error
	// DeleteContact removes id; a missing id is not an error.
	DeleteContact(ctx context.Context, id ContactID) error
}

// CallHistoryStore defines the append-only call log.
type CallHistoryStore interface {
	// AppendCallRecord stores rec with a store-assigned ID and CalledAt.
	AppendCallRecord(ctx context.Context, rec NewCallRecord) (*CallRecord, error)
	// ListCallRecords returns all records ordered by CalledAt descending.
	ListCallRecords(ctx context.Context) ([]*CallRecord, error)
	// DeleteCallRecord removes one record; a missing id is not an error.
	DeleteCallRecord(ctx context.Context, id CallRecordID) error
}
