package api

import (
	"net/http"

	"visacrm/internal/domain"
)

// ListAuditLogs returns audit entries. Restricted to roles with audit read
// permission; the service enforces this.
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{Page: pageFromQuery(r)}
	if v := r.URL.Query().Get("actor_email"); v != "" {
		filter.ActorEmail = &v
	}
	if v := r.URL.Query().Get("action"); v != "" {
		action := domain.AuditAction(v)
		filter.Action = &action
	}
	if v := r.URL.Query().Get("entity_type"); v != "" {
		filter.EntityType = &v
	}
	if v := r.URL.Query().Get("branch_id"); v != "" {
		filter.BranchID = &v
	}

	entries, total, err := h.audit.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = auditEntryToAPI(e)
	}
	respondJSON(w, http.StatusOK, listResponse[AuditEntryResponse]{
		Data:          out,
		Total:         total,
		NextPageToken: domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
	})
}
