package domain

import (
	"time"
)

// Branch is a physical office and the unit of data isolation. Every tenant
// row links to at most one branch. Branches are never soft-deleted; removing
// one cascades to all of its tenant data.
type Branch struct {
	ID          string
	Code        string // short unique code, e.g. LHR, DXB
	Name        string
	Country     string
	Currency    string
	Timezone    string // IANA name, e.g. Asia/Karachi
	IsHQ        bool
	OpeningTime string // local wall-clock "HH:MM"
	ClosingTime string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCurrentlyOpen reports whether the branch is open at its local wall-clock
// time. Missing or invalid operating-hours data is treated as open.
func (b *Branch) IsCurrentlyOpen(now time.Time) bool {
	if b.Timezone == "" || b.OpeningTime == "" || b.ClosingTime == "" {
		return true
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return true
	}
	local := now.In(loc).Format("15:04")
	return b.OpeningTime <= local && local <= b.ClosingTime
}

// LocalTime returns the branch's current local wall-clock time, or "--:--"
// when the timezone is unknown.
func (b *Branch) LocalTime(now time.Time) string {
	if b.Timezone == "" {
		return "--:--"
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return "--:--"
	}
	return now.In(loc).Format("15:04")
}

// ScopeKind enumerates the shapes a resolved branch scope can take.
type ScopeKind int

const (
	// ScopeNone grants no access: reads yield empty sets, writes are denied.
	ScopeNone ScopeKind = iota
	// ScopeBranch restricts to exactly one branch.
	ScopeBranch
	// ScopeCountry restricts to all branches in one country.
	ScopeCountry
	// ScopeGlobal applies no branch restriction.
	ScopeGlobal
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeNone:
		return "none"
	case ScopeBranch:
		return "branch"
	case ScopeCountry:
		return "country"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// BranchScope is the resolved visibility context for a request. It is
// computed once per request from the principal and the optional X-Branch-ID
// override, and passed explicitly to every read and write decision — there
// is no ambient request state.
type BranchScope struct {
	Kind     ScopeKind
	BranchID string // set when Kind == ScopeBranch
	Country  string // set when Kind == ScopeCountry
}

// GlobalScope returns an unrestricted scope.
func GlobalScope() BranchScope { return BranchScope{Kind: ScopeGlobal} }

// NoScope returns a scope granting no access.
func NoScope() BranchScope { return BranchScope{Kind: ScopeNone} }

// SingleBranchScope returns a scope restricted to one branch.
func SingleBranchScope(branchID string) BranchScope {
	return BranchScope{Kind: ScopeBranch, BranchID: branchID}
}

// CountryScope returns a scope restricted to all branches in a country.
func CountryScope(country string) BranchScope {
	return BranchScope{Kind: ScopeCountry, Country: country}
}

// String renders the scope for logs and audit entries.
func (s BranchScope) String() string {
	switch s.Kind {
	case ScopeBranch:
		return "branch:" + s.BranchID
	case ScopeCountry:
		return "country:" + s.Country
	default:
		return s.Kind.String()
	}
}
