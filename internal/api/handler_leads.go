package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"visacrm/internal/domain"
)

// ListLeads returns leads visible in the caller's resolved scope. Counselors
// only see their own. include_deleted requires compliance read permission.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	leads, total, err := h.leads.List(r.Context(), page, boolQuery(r, "include_deleted"))
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]LeadResponse, len(leads))
	for i, l := range leads {
		out[i] = leadToAPI(l)
	}
	respondJSON(w, http.StatusOK, listResponse[LeadResponse]{
		Data:          out,
		Total:         total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// GetLead returns a single lead. Out-of-scope leads read as not found so the
// response does not leak their existence.
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	l, err := h.leads.Get(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, leadToAPI(*l))
}

// CreateLead creates a new lead in the caller's branch context.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	l, err := h.leads.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, leadToAPI(*l))
}

// UpdateLead applies a partial update to a lead.
func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	l, err := h.leads.Update(r.Context(), chi.URLParam(r, "leadID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, leadToAPI(*l))
}

// DeleteLead soft-deletes a lead. Repeating the call is a no-op.
func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.leads.SoftDelete(r.Context(), chi.URLParam(r, "leadID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AnonymizeLead irreversibly clears a lead's personal fields.
func (h *Handler) AnonymizeLead(w http.ResponseWriter, r *http.Request) {
	l, err := h.leads.Anonymize(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, leadToAPI(*l))
}
