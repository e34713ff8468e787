// Package api provides HTTP handlers for the CRM REST API.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"visacrm/internal/domain"
	"visacrm/internal/service/compliance"
	"visacrm/internal/service/crm"
	"visacrm/internal/service/directory"
	"visacrm/internal/service/governance"
	"visacrm/internal/service/security"
)

// Handler holds the service dependencies for all API routes.
type Handler struct {
	branches *directory.BranchService
	leads    *crm.LeadService
	students *crm.StudentService
	audit    *governance.AuditService
	resolver *security.BranchResolver
	sweeper  *compliance.Sweeper
}

// NewHandler creates a new Handler with all required service dependencies.
func NewHandler(
	branches *directory.BranchService,
	leads *crm.LeadService,
	students *crm.StudentService,
	audit *governance.AuditService,
	resolver *security.BranchResolver,
	sweeper *compliance.Sweeper,
) *Handler {
	return &Handler{
		branches: branches,
		leads:    leads,
		students: students,
		audit:    audit,
		resolver: resolver,
		sweeper:  sweeper,
	}
}

// Routes registers all API routes on the given router. Authentication
// middleware is applied by the caller.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/me", h.GetMe)

	r.Route("/branches", func(r chi.Router) {
		r.Get("/", h.ListBranches)
		r.Post("/", h.CreateBranch)
		r.Get("/{branchID}", h.GetBranch)
		r.Patch("/{branchID}", h.UpdateBranch)
	})

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", h.ListLeads)
		r.Post("/", h.CreateLead)
		r.Get("/{leadID}", h.GetLead)
		r.Patch("/{leadID}", h.UpdateLead)
		r.Delete("/{leadID}", h.DeleteLead)
		r.Post("/{leadID}/anonymize", h.AnonymizeLead)
	})

	r.Route("/students", func(r chi.Router) {
		r.Get("/", h.ListStudents)
		r.Post("/", h.CreateStudent)
		r.Get("/{studentID}", h.GetStudent)
		r.Patch("/{studentID}", h.UpdateStudent)
		r.Delete("/{studentID}", h.DeleteStudent)
		r.Post("/{studentID}/anonymize", h.AnonymizeStudent)
	})

	r.Get("/audit-logs", h.ListAuditLogs)
	r.Post("/compliance/sweep", h.RunRetentionSweep)
}

// --- response helpers ---

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, err error) {
	code := httpStatusFromDomainError(err)
	respondJSON(w, code, errorResponse{Code: code, Message: err.Error()})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

// pageFromQuery extracts a PageRequest from page_size/page_token query params.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			p.PageSize = v
		}
	}
	return p
}

// boolQuery reads a boolean query param, treating absence as false.
func boolQuery(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
