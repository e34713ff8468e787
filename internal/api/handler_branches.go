package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"visacrm/internal/domain"
)

// ListBranches returns the branches visible in the caller's resolved scope.
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	branches, total, err := h.branches.List(r.Context(), page)
	if err != nil {
		respondError(w, err)
		return
	}
	now := time.Now().UTC()
	out := make([]BranchResponse, len(branches))
	for i, b := range branches {
		out[i] = branchToAPI(b, now)
	}
	respondJSON(w, http.StatusOK, listResponse[BranchResponse]{
		Data:          out,
		Total:         total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// GetBranch returns a single branch when it falls inside the caller's scope.
func (h *Handler) GetBranch(w http.ResponseWriter, r *http.Request) {
	b, err := h.branches.Get(r.Context(), chi.URLParam(r, "branchID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, branchToAPI(*b, time.Now().UTC()))
}

// CreateBranch creates a new branch.
func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBranchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	b, err := h.branches.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, branchToAPI(*b, time.Now().UTC()))
}

// UpdateBranch applies a partial update to a branch.
func (h *Handler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBranchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	b, err := h.branches.Update(r.Context(), chi.URLParam(r, "branchID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, branchToAPI(*b, time.Now().UTC()))
}
