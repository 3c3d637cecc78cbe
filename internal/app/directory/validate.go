package directory

import (
	"regexp"

	"github.com/PabloGalante/sipcall/internal/domain"
)

var (
	formPhonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	formEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const minFormPhoneLen = 10

func (s *Service) validate(name, phone, email string) error {
	if err := domain.ValidateContactFields(name, phone); err != nil {
		return err
	}
	if !s.strictInput {
		return nil
	}
	if err := validateFormPhone(phone); err != nil {
		return err
	}
	return validateFormEmail(email)
}

func (s *Service) validatePatch(p domain.ContactPatch) error {
	if p.Name != nil {
		if err := domain.RequireNonBlank("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Phone != nil {
		if err := domain.RequireNonBlank("phone", *p.Phone); err != nil {
			return err
		}
		if s.strictInput {
			if err := validateFormPhone(*p.Phone); err != nil {
				return err
			}
		}
	}
	if p.Email != nil && s.strictInput {
		return validateFormEmail(*p.Email)
	}
	return nil
}

func validateFormPhone(phone string) error {
	if !formPhonePattern.MatchString(phone) || len(phone) < minFormPhoneLen {
		return &domain.ValidationError{Field: "phone", Reason: "must be at least 10 digits, spaces, +, - or parentheses"}
	}
	return nil
}

// email is optional
func validateFormEmail(email string) error {
	if email == "" {
		return nil
	}
	if !formEmailPattern.MatchString(email) {
		return &domain.ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return nil
}
