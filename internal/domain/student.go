package domain

import "time"

// StudentStatus tracks an enrolled student.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusOnHold    StudentStatus = "ON_HOLD"
	StudentStatusEnrolled  StudentStatus = "ENROLLED"
	StudentStatusWithdrawn StudentStatus = "WITHDRAWN"
)

// Student is an enrolled student, usually created by converting a Lead.
// Counselor-owned like Lead.
type Student struct {
	TenantFields

	FirstName      string
	LastName       string
	Email          string
	Phone          *string
	PassportNumber *string
	Nationality    *string
	Status         StudentStatus
	CounselorID    *string
	LeadID         *string // original lead when converted
}

// OwnerID implements TenantRow ownership sub-scoping.
func (s *Student) OwnerID() *string { return s.CounselorID }

// Anonymize irreversibly clears the student's personal fields. No-op when
// already anonymized.
func (s *Student) Anonymize(now time.Time) bool {
	if !s.MarkAnonymized(now) {
		return false
	}
	s.FirstName = AnonymizedName
	s.LastName = "Student"
	s.Email = AnonymizedEmail(s.ID)
	s.Phone = nil
	s.PassportNumber = nil
	s.Nationality = nil
	return true
}
