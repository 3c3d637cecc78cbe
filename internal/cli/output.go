package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/sipcall/internal/domain"
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// Printer renders command results as text, JSON or YAML.
type Printer struct {
	Format string
	Out    io.Writer
	// Color highlights missed calls in text output.
	Color bool
}

// NewPrinter enables color only when out is a terminal.
func NewPrinter(format string, out io.Writer) *Printer {
	p := &Printer{Format: format, Out: out}
	if f, ok := out.(*os.File); ok {
		fd := f.Fd()
		p.Color = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return p
}

type contactView struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Phone     string    `json:"phone" yaml:"phone"`
	Email     string    `json:"email" yaml:"email"`
	Company   string    `json:"company" yaml:"company"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

type recordView struct {
	ID       string    `json:"id" yaml:"id"`
	Phone    string    `json:"phone" yaml:"phone"`
	Name     string    `json:"name" yaml:"name"`
	Type     string    `json:"type" yaml:"type"`
	CalledAt time.Time `json:"called_at" yaml:"called_at"`
}

type historyView struct {
	Records     []recordView `json:"records" yaml:"records"`
	MissedCount int          `json:"missed_count" yaml:"missed_count"`
}

type sessionView struct {
	ID            string `json:"id" yaml:"id"`
	Phone         string `json:"phone" yaml:"phone"`
	ContactName   string `json:"contact_name,omitempty" yaml:"contact_name,omitempty"`
	Direction     string `json:"direction" yaml:"direction"`
	Status        string `json:"status" yaml:"status"`
	Outcome       string `json:"outcome" yaml:"outcome"`
	DurationMS    int64  `json:"duration_ms" yaml:"duration_ms"`
	FailureReason string `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
	RecordID      string `json:"record_id,omitempty" yaml:"record_id,omitempty"`
}

func toContactView(c *domain.Contact) contactView {
	return contactView{
		ID:        string(c.ID),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Company:   c.Company,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func (p *Printer) encode(v any) error {
	switch p.Format {
	case "json":
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(p.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format: %s", p.Format)
}

// Contacts writes a contact list, one tab-separated row per contact in text mode.
func (p *Printer) Contacts(contacts []*domain.Contact) error {
	if p.Format != "text" {
		views := make([]contactView, 0, len(contacts))
		for _, c := range contacts {
			views = append(views, toContactView(c))
		}
		return p.encode(views)
	}

	if _, err := fmt.Fprintln(p.Out, "id\tname\tphone\temail\tcompany"); err != nil {
		return err
	}
	for _, c := range contacts {
		if _, err := fmt.Fprintf(p.Out, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Phone, c.Email, c.Company); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) Contact(c *domain.Contact) error {
	if p.Format != "text" {
		return p.encode(toContactView(c))
	}

	_, err := fmt.Fprintf(p.Out, "id:      %s\nname:    %s\nphone:   %s\nemail:   %s\ncompany: %s\ncreated: %s\n",
		c.ID, c.Name, c.Phone, c.Email, c.Company, c.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// Records writes the call log. missed is the badge count over the whole log,
// not only the listed records.
func (p *Printer) Records(records []*domain.CallRecord, missed int) error {
	if p.Format != "text" {
		view := historyView{Records: make([]recordView, 0, len(records)), MissedCount: missed}
		for _, r := range records {
			view.Records = append(view.Records, recordView{
				ID:       string(r.ID),
				Phone:    r.Phone,
				Name:     r.Name,
				Type:     string(r.Type),
				CalledAt: r.CalledAt.UTC(),
			})
		}
		return p.encode(view)
	}

	if _, err := fmt.Fprintln(p.Out, "called_at\ttype\tname\tphone\tid"); err != nil {
		return err
	}
	for _, r := range records {
		name := r.Name
		if name == "" {
			name = r.Phone
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", r.CalledAt.UTC().Format(time.RFC3339), r.Type, name, r.Phone, r.ID)
		if p.Color && r.Type == domain.CallMissed {
			line = ansiRed + line + ansiReset
		}
		if _, err := fmt.Fprintln(p.Out, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.Out, "missed: %d\n", missed)
	return err
}

// Session writes the state of a call session.
func (p *Printer) Session(s domain.CallSession, recordID domain.CallRecordID) error {
	if p.Format != "text" {
		return p.encode(sessionView{
			ID:            string(s.ID),
			Phone:         s.TargetPhone,
			ContactName:   s.ContactName(),
			Direction:     string(s.Direction),
			Status:        string(s.Status),
			Outcome:       string(s.Outcome()),
			DurationMS:    s.Duration().Milliseconds(),
			FailureReason: s.FailureReason,
			RecordID:      string(recordID),
		})
	}

	name := s.ContactName()
	if name == "" {
		name = "(unknown)"
	}
	if _, err := fmt.Fprintf(p.Out, "%s call %s %s: %s, %s\n", s.Direction, s.TargetPhone, name, s.Status, s.Duration().Round(time.Second)); err != nil {
		return err
	}
	if s.FailureReason != "" {
		if _, err := fmt.Fprintf(p.Out, "failure: %s\n", s.FailureReason); err != nil {
			return err
		}
	}
	if recordID != "" {
		if _, err := fmt.Fprintf(p.Out, "logged as %s (%s)\n", s.Outcome(), recordID); err != nil {
			return err
		}
	}
	return nil
}

// Done reports a completed write.
func (p *Printer) Done(action, id string) error {
	if p.Format != "text" {
		return p.encode(map[string]string{"action": action, "id": id})
	}
	_, err := fmt.Fprintf(p.Out, "%s %s\n", action, id)
	return err
}
