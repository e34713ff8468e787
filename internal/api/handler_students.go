package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"visacrm/internal/domain"
)

// ListStudents returns students visible in the caller's resolved scope.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	students, total, err := h.students.List(r.Context(), page, boolQuery(r, "include_deleted"))
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]StudentResponse, len(students))
	for i, s := range students {
		out[i] = studentToAPI(s)
	}
	respondJSON(w, http.StatusOK, listResponse[StudentResponse]{
		Data:          out,
		Total:         total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// GetStudent returns a single student, not found when out of scope.
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	s, err := h.students.Get(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, studentToAPI(*s))
}

// CreateStudent creates a new student, optionally converting a lead.
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	s, err := h.students.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, studentToAPI(*s))
}

// UpdateStudent applies a partial update to a student.
func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	s, err := h.students.Update(r.Context(), chi.URLParam(r, "studentID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, studentToAPI(*s))
}

// DeleteStudent soft-deletes a student. Repeating the call is a no-op.
func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.students.SoftDelete(r.Context(), chi.URLParam(r, "studentID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AnonymizeStudent irreversibly clears a student's personal fields.
func (h *Handler) AnonymizeStudent(w http.ResponseWriter, r *http.Request) {
	s, err := h.students.Anonymize(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, studentToAPI(*s))
}
