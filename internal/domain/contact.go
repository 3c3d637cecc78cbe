package domain

import "strings"

// Contact is a directory entry identifying a caller or callee.
type Contact struct {
	ID      ContactID
	Name    string
	Phone   string
	Email   string
	Company string

	// CreatedAt is assigned by the store on insert. Used to order
	// contacts that share a phone number.
	CreatedAt Timestamp
}

// ContactPatch carries a partial update. Nil fields are left untouched.
type ContactPatch struct {
	Name    *string
	Phone   *string
	Email   *string
	Company *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ContactPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Email == nil && p.Company == nil
}

// Apply returns a copy of c with the supplied fields replaced.
func (p ContactPatch) Apply(c Contact) Contact {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	return c
}

// ValidateContactFields checks the invariants every stored contact must hold:
// non-blank name and phone. Phone format is free text.
func ValidateContactFields(name, phone string) error {
	if err := RequireNonBlank("name", name); err != nil {
		return err
	}
	return RequireNonBlank("phone", phone)
}

// RequireNonBlank rejects a value that is empty or only whitespace.
func RequireNonBlank(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Field: field, Reason: "must not be blank"}
	}
	return nil
}

// Resolution is the outcome of looking up a phone number in the directory:
// either a known contact or an unknown caller.
type Resolution struct {
	contact *Contact
}

// Known wraps a resolved contact.
func Known(c Contact) Resolution {
	return Resolution{contact: &c}
}

// Unknown is the resolution for a phone with no matching contact.
func Unknown() Resolution {
	return Resolution{}
}

// IsKnown reports whether the phone matched a contact.
func (r Resolution) IsKnown() bool {
	return r.contact != nil
}

// Contact returns the resolved contact and true, or the zero value and false.
func (r Resolution) Contact() (Contact, bool) {
	if r.contact == nil {
		return Contact{}, false
	}
	return *r.contact, true
}

// DisplayName is the contact name for a known resolution and "" otherwise.
func (r Resolution) DisplayName() string {
	if r.contact == nil {
		return ""
	}
	return r.contact.Name
}
