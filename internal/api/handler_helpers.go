package api

import (
	"time"

	"visacrm/internal/domain"
)

// === API representations ===

// BranchResponse is the wire form of a branch.
type BranchResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	Currency    string    `json:"currency"`
	Timezone    string    `json:"timezone"`
	IsHQ        bool      `json:"is_hq"`
	OpeningTime string    `json:"opening_time"`
	ClosingTime string    `json:"closing_time"`
	IsActive    bool      `json:"is_active"`
	IsOpenNow   bool      `json:"is_open_now"`
	LocalTime   string    `json:"local_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LeadResponse is the wire form of a lead.
type LeadResponse struct {
	ID           string            `json:"id"`
	BranchID     *string           `json:"branch_id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Email        string            `json:"email"`
	Phone        *string           `json:"phone"`
	Notes        *string           `json:"notes"`
	Status       domain.LeadStatus `json:"status"`
	CounselorID  *string           `json:"counselor_id"`
	IsDeleted    bool              `json:"is_deleted"`
	IsAnonymized bool              `json:"is_anonymized"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// StudentResponse is the wire form of a student.
type StudentResponse struct {
	ID             string               `json:"id"`
	BranchID       *string              `json:"branch_id"`
	FirstName      string               `json:"first_name"`
	LastName       string               `json:"last_name"`
	Email          string               `json:"email"`
	Phone          *string              `json:"phone"`
	PassportNumber *string              `json:"passport_number"`
	Nationality    *string              `json:"nationality"`
	Status         domain.StudentStatus `json:"status"`
	CounselorID    *string              `json:"counselor_id"`
	LeadID         *string              `json:"lead_id"`
	IsDeleted      bool                 `json:"is_deleted"`
	IsAnonymized   bool                 `json:"is_anonymized"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// AuditEntryResponse is the wire form of an audit log entry.
type AuditEntryResponse struct {
	ID         string             `json:"id"`
	ActorID    *string            `json:"actor_id"`
	ActorEmail string             `json:"actor_email"`
	Action     domain.AuditAction `json:"action"`
	EntityType string             `json:"entity_type"`
	EntityID   string             `json:"entity_id"`
	BranchID   *string            `json:"branch_id"`
	RequestID  string             `json:"request_id"`
	Changes    map[string]any     `json:"changes"`
	CreatedAt  time.Time          `json:"created_at"`
}

// listResponse is the generic paginated list envelope.
type listResponse[T any] struct {
	Data          []T    `json:"data"`
	Total         int64  `json:"total"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// === Mapping helpers ===

func branchToAPI(b domain.Branch, now time.Time) BranchResponse {
	return BranchResponse{
		ID:          b.ID,
		Code:        b.Code,
		Name:        b.Name,
		Country:     b.Country,
		Currency:    b.Currency,
		Timezone:    b.Timezone,
		IsHQ:        b.IsHQ,
		OpeningTime: b.OpeningTime,
		ClosingTime: b.ClosingTime,
		IsActive:    b.IsActive,
		IsOpenNow:   b.IsCurrentlyOpen(now),
		LocalTime:   b.LocalTime(now),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func leadToAPI(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:           l.ID,
		BranchID:     l.BranchID,
		FirstName:    l.FirstName,
		LastName:     l.LastName,
		Email:        l.Email,
		Phone:        l.Phone,
		Notes:        l.Notes,
		Status:       l.Status,
		CounselorID:  l.CounselorID,
		IsDeleted:    l.IsDeleted,
		IsAnonymized: l.IsAnonymized,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func studentToAPI(s domain.Student) StudentResponse {
	return StudentResponse{
		ID:             s.ID,
		BranchID:       s.BranchID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Phone:          s.Phone,
		PassportNumber: s.PassportNumber,
		Nationality:    s.Nationality,
		Status:         s.Status,
		CounselorID:    s.CounselorID,
		LeadID:         s.LeadID,
		IsDeleted:      s.IsDeleted,
		IsAnonymized:   s.IsAnonymized,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func auditEntryToAPI(e domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID,
		ActorID:    e.ActorID,
		ActorEmail: e.ActorEmail,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		BranchID:   e.BranchID,
		RequestID:  e.RequestID,
		Changes:    e.Changes,
		CreatedAt:  e.CreatedAt,
	}
}
