package directory

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/PabloGalante/sipcall/internal/domain"
)

// Search filters contacts the way the contacts screen does: a case-insensitive
// substring match on the name, or a plain substring match on the phone.
// An empty query returns the input unchanged.
func Search(contacts []*domain.Contact, query string) []*domain.Contact {
	if query == "" {
		return contacts
	}

	fold := cases.Fold()
	q := fold.String(query)

	out := make([]*domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.Contains(fold.String(c.Name), q) || strings.Contains(c.Phone, query) {
			out = append(out, c)
		}
	}
	return out
}
