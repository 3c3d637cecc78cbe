package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/PabloGalante/sipcall/internal/domain"
)

const contactColumns = "id, name, phone, email, company, created_at"

func (s *Store) CreateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	stored := *c
	stored.ID = domain.ContactID(uuid.NewString())

	stmt := `INSERT INTO contacts (id, name, phone, email, company)
		VALUES (` + s.placeholders(5) + `)
		RETURNING created_at`

	var createdAt int64
	if err := s.db.QueryRowContext(ctx, stmt,
		string(stored.ID), stored.Name, stored.Phone, stored.Email, stored.Company,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	stored.CreatedAt = fromMillis(createdAt)
	return &stored, nil
}

func (s *Store) ListContacts(ctx context.Context) ([]*domain.Contact, error) {
	return s.queryContacts(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY seq ASC`)
}

func (s *Store) GetContact(ctx context.Context, id domain.ContactID) (*domain.Contact, error) {
	list, err := s.queryContacts(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = `+s.placeholder(1),
		string(id),
	)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.NotFound("contact", string(id))
	}
	return list[0], nil
}

func (s *Store) FindContactsByPhone(ctx context.Context, phone string, limit int) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE phone = ` + s.placeholder(1) + `
		ORDER BY created_at ASC, seq ASC`
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}
	return s.queryContacts(ctx, query, phone)
}

func (s *Store) UpdateContact(ctx context.Context, id domain.ContactID, patch domain.ContactPatch) error {
	set, args := []string{}, []any{}

	add := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		set = append(set, column+" = "+s.placeholder(len(args)))
	}
	add("name", patch.Name)
	add("phone", patch.Phone)
	add("email", patch.Email)
	add("company", patch.Company)

	if len(set) == 0 {
		_, err := s.GetContact(ctx, id)
		return err
	}

	args = append(args, string(id))
	stmt := `UPDATE contacts SET ` + strings.Join(set, ", ") + ` WHERE id = ` + s.placeholder(len(args))

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if n == 0 {
		return domain.NotFound("contact", string(id))
	}
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, id domain.ContactID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = `+s.placeholder(1), string(id)); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

func (s *Store) queryContacts(ctx context.Context, query string, args ...any) ([]*domain.Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	list := make([]*domain.Contact, 0)
	for rows.Next() {
		var (
			c         domain.Contact
			id        string
			createdAt int64
		)
		if err := rows.Scan(&id, &c.Name, &c.Phone, &c.Email, &c.Company, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.ID = domain.ContactID(id)
		c.CreatedAt = fromMillis(createdAt)
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return list, nil
}

// placeholders returns n bind parameters starting at 1.
func (s *Store) placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, s.placeholder(i))
	}
	return strings.Join(list, ", ")
}
