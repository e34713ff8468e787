package api

import (
	"net/http"

	"visacrm/internal/domain"
)

// MeResponse describes the authenticated caller and the branch scope
// resolved for this request.
type MeResponse struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Role        domain.Role   `json:"role"`
	IsSuperuser bool          `json:"is_superuser"`
	BranchID    *string       `json:"branch_id"`
	Scope       ScopeResponse `json:"scope"`
}

// ScopeResponse is the wire form of a resolved branch scope.
type ScopeResponse struct {
	Kind     string `json:"kind"`
	BranchID string `json:"branch_id,omitempty"`
	Country  string `json:"country,omitempty"`
}

// GetMe returns the caller's identity plus the scope the server resolved
// from the principal and the X-Branch-ID header. Useful for clients to
// discover what the current request context can see.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, ok := domain.UserFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthorized("authentication required"))
		return
	}
	scope := h.resolver.Resolve(r.Context(), u)
	respondJSON(w, http.StatusOK, MeResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
		BranchID:    u.BranchID,
		Scope: ScopeResponse{
			Kind:     scope.Kind.String(),
			BranchID: scope.BranchID,
			Country:  scope.Country,
		},
	})
}
