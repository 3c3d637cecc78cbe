package history

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/PabloGalante/sipcall/internal/domain"
)

// Filter selects what the calls screen shows.
type Filter struct {
	MissedOnly bool
	// Query matches the name case-insensitively or the phone as a substring.
	Query string
}

// Apply returns the records that pass f, keeping their order.
func (f Filter) Apply(records []*domain.CallRecord) []*domain.CallRecord {
	fold := cases.Fold()
	q := fold.String(f.Query)

	out := make([]*domain.CallRecord, 0, len(records))
	for _, r := range records {
		if f.MissedOnly && r.Type != domain.CallMissed {
			continue
		}
		if f.Query != "" {
			// unknown callers are listed under their phone number
			name := r.Name
			if name == "" {
				name = r.Phone
			}
			if !strings.Contains(fold.String(name), q) && !strings.Contains(r.Phone, f.Query) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// MissedCount is the number of missed calls in records.
func MissedCount(records []*domain.CallRecord) int {
	n := 0
	for _, r := range records {
		if r.Type == domain.CallMissed {
			n++
		}
	}
	return n
}
