package domain

// CreateBranchRequest carries input for opening a new branch.
type CreateBranchRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Currency    string  `json:"currency"`
	Timezone    string  `json:"timezone"`
	IsHQ        bool    `json:"is_hq"`
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
}

// Validate checks required fields.
func (r CreateBranchRequest) Validate() error {
	if r.Code == "" {
		return ErrValidation("code is required")
	}
	if r.Name == "" {
		return ErrValidation("name is required")
	}
	if r.Country == "" {
		return ErrValidation("country is required")
	}
	return nil
}

// UpdateBranchRequest patches a branch; nil fields are left unchanged.
type UpdateBranchRequest struct {
	Name        *string `json:"name"`
	Currency    *string `json:"currency"`
	Timezone    *string `json:"timezone"`
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
	IsActive    *bool   `json:"is_active"`
}

// CreateLeadRequest carries input for a new lead. BranchID is advisory: the
// security layer validates it against the caller's scope and may reject or
// replace it.
type CreateLeadRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	Notes       *string `json:"notes"`
	BranchID    *string `json:"branch_id"`
	CounselorID *string `json:"counselor_id"`
}

// Validate checks required fields.
func (r CreateLeadRequest) Validate() error {
	if r.FirstName == "" || r.LastName == "" {
		return ErrValidation("first_name and last_name are required")
	}
	if r.Email == "" {
		return ErrValidation("email is required")
	}
	return nil
}

// UpdateLeadRequest patches a lead; nil fields are left unchanged.
type UpdateLeadRequest struct {
	FirstName   *string     `json:"first_name"`
	LastName    *string     `json:"last_name"`
	Email       *string     `json:"email"`
	Phone       *string     `json:"phone"`
	Notes       *string     `json:"notes"`
	Status      *LeadStatus `json:"status"`
	CounselorID *string     `json:"counselor_id"`
}

// TouchesPersonalData reports whether the patch writes personal-data fields,
// which is rejected on anonymized rows.
func (r UpdateLeadRequest) TouchesPersonalData() bool {
	return r.FirstName != nil || r.LastName != nil || r.Email != nil ||
		r.Phone != nil || r.Notes != nil
}

// CreateStudentRequest carries input for a new student.
type CreateStudentRequest struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	PassportNumber *string `json:"passport_number"`
	Nationality    *string `json:"nationality"`
	BranchID       *string `json:"branch_id"`
	CounselorID    *string `json:"counselor_id"`
	LeadID         *string `json:"lead_id"`
}

// Validate checks required fields.
func (r CreateStudentRequest) Validate() error {
	if r.FirstName == "" || r.LastName == "" {
		return ErrValidation("first_name and last_name are required")
	}
	if r.Email == "" {
		return ErrValidation("email is required")
	}
	return nil
}

// UpdateStudentRequest patches a student; nil fields are left unchanged.
type UpdateStudentRequest struct {
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
	Email          *string        `json:"email"`
	Phone          *string        `json:"phone"`
	PassportNumber *string        `json:"passport_number"`
	Nationality    *string        `json:"nationality"`
	Status         *StudentStatus `json:"status"`
	CounselorID    *string        `json:"counselor_id"`
}

// TouchesPersonalData reports whether the patch writes personal-data fields.
func (r UpdateStudentRequest) TouchesPersonalData() bool {
	return r.FirstName != nil || r.LastName != nil || r.Email != nil ||
		r.Phone != nil || r.PassportNumber != nil || r.Nationality != nil
}
