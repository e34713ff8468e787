package domain

import "time"

// LeadStatus tracks a lead through the funnel.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusLost      LeadStatus = "LOST"
)

// Lead is a prospective student enquiry. Counselor-owned: counselors only
// see leads assigned to them, even within their own branch.
type Lead struct {
	TenantFields

	FirstName   string
	LastName    string
	Email       string
	Phone       *string
	Notes       *string
	Status      LeadStatus
	CounselorID *string
}

// OwnerID implements TenantRow ownership sub-scoping.
func (l *Lead) OwnerID() *string { return l.CounselorID }

// Anonymize irreversibly clears the lead's personal fields. No-op when
// already anonymized.
func (l *Lead) Anonymize(now time.Time) bool {
	if !l.MarkAnonymized(now) {
		return false
	}
	l.FirstName = AnonymizedName
	l.LastName = "Lead"
	l.Email = AnonymizedEmail(l.ID)
	l.Phone = nil
	l.Notes = nil
	return true
}
