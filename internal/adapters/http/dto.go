package httpadapter

import (
	"time"

	"github.com/PabloGalante/sipcall/internal/domain"
)

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createContactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
}

type updateContactRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Company *string `json:"company,omitempty"`
}

func (r updateContactRequest) patch() domain.ContactPatch {
	return domain.ContactPatch{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Company: r.Company,
	}
}

type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	CreatedAt time.Time `json:"created_at"`
}

type listContactsResponse struct {
	Contacts []contactResponse `json:"contacts"`
	Stale    bool              `json:"stale,omitempty"`
	Warning  string            `json:"warning,omitempty"`
}

type lookupResponse struct {
	Known   bool             `json:"known"`
	Contact *contactResponse `json:"contact,omitempty"`
}

type callRecordResponse struct {
	ID       string    `json:"id"`
	Phone    string    `json:"phone"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	CalledAt time.Time `json:"called_at"`
}

type listHistoryResponse struct {
	Records     []callRecordResponse `json:"records"`
	MissedCount int                  `json:"missed_count"`
	Stale       bool                 `json:"stale,omitempty"`
	Warning     string               `json:"warning,omitempty"`
}

type startCallRequest struct {
	Phone string `json:"phone"`
}

type failCallRequest struct {
	Reason string `json:"reason"`
}

type sessionResponse struct {
	ID            string     `json:"id"`
	TargetPhone   string     `json:"target_phone"`
	ContactName   *string    `json:"contact_name,omitempty"`
	Direction     string     `json:"direction"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	ConnectedAt   *time.Time `json:"connected_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	DurationMS    int64      `json:"duration_ms"`
	Muted         bool       `json:"muted"`
	SpeakerOn     bool       `json:"speaker_on"`
	FailureReason string     `json:"failure_reason,omitempty"`
	RecordID      string     `json:"record_id,omitempty"`
}

// ─────────────────────────────────────────────
// Mapping helpers
// ─────────────────────────────────────────────

func toContactResponse(c *domain.Contact) contactResponse {
	return contactResponse{
		ID:        string(c.ID),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Company:   c.Company,
		CreatedAt: c.CreatedAt,
	}
}

func toContactsResponse(cs []*domain.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toContactResponse(c))
	}
	return out
}

func toCallRecordsResponse(rs []*domain.CallRecord) []callRecordResponse {
	out := make([]callRecordResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, callRecordResponse{
			ID:       string(r.ID),
			Phone:    r.Phone,
			Name:     r.Name,
			Type:     string(r.Type),
			CalledAt: r.CalledAt,
		})
	}
	return out
}

func toSessionResponse(s domain.CallSession, recordID domain.CallRecordID) sessionResponse {
	return sessionResponse{
		ID:            string(s.ID),
		TargetPhone:   s.TargetPhone,
		ContactName:   s.ResolvedContactName,
		Direction:     string(s.Direction),
		Status:        string(s.Status),
		StartedAt:     s.StartedAt,
		ConnectedAt:   s.ConnectedAt,
		EndedAt:       s.EndedAt,
		DurationMS:    s.Duration().Milliseconds(),
		Muted:         s.Muted,
		SpeakerOn:     s.SpeakerOn,
		FailureReason: s.FailureReason,
		RecordID:      string(recordID),
	}
}

func warningText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
