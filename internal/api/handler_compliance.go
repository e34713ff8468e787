package api

import (
	"net/http"
	"time"

	"visacrm/internal/domain"
)

// RunRetentionSweep triggers an immediate retention sweep: soft-deleted rows
// past their retention window are anonymized. Also runs on the internal cron
// schedule; this endpoint exists for compliance tooling.
func (h *Handler) RunRetentionSweep(w http.ResponseWriter, r *http.Request) {
	u, _ := domain.UserFromContext(r.Context())
	if err := domain.RequirePermission(u, domain.ResourceCompliance, domain.OpWrite); err != nil {
		respondError(w, err)
		return
	}
	result, err := h.sweeper.Sweep(r.Context(), time.Now().UTC())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
