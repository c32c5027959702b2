package student

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexa091904/semi-project/internal/httputil"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/students", h.ListStudents)
	router.Post("/students", h.CreateStudent)
	router.Get("/students/{id}", h.GetStudent)
	router.Put("/students/{id}", h.UpdateStudent)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var student Student
	if err := httputil.DecodeJSON(r, &student); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "email", student.EmailAddress)
	created, err := h.service.CreateStudent(r.Context(), &student)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	students, err := h.service.ListStudents(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, students)
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrStudentNotFound)
		return
	}

	student, err := h.service.GetStudent(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, student)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrStudentNotFound)
		return
	}

	var student Student
	if err := httputil.DecodeJSON(r, &student); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}
	student.ID = id

	h.logger.InfoContext(r.Context(), "updating student", "id", id)
	updated, err := h.service.UpdateStudent(r.Context(), &student)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if vErr, ok := validation.AsError(err); ok {
		httputil.RespondWithFieldErrors(w, vErr.Fields)
		return
	}
	if errors.Is(err, ErrStudentNotFound) {
		h.logger.InfoContext(r.Context(), "student not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "student request failed", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
	}

	fields := make(map[string]string)
	filter.DepartmentID = queryUUID(q.Get("department_id"), "department_id", fields)
	filter.CourseID = queryUUID(q.Get("course_id"), "course_id", fields)
	filter.AcademicYearID = queryUUID(q.Get("academic_year_id"), "academic_year_id", fields)

	switch filter.Status {
	case "", StatusActive, StatusInactive, StatusGraduated:
	default:
		fields["status"] = "must be one of: Active, Inactive, Graduated"
	}

	if len(fields) > 0 {
		return filter, &validation.Error{Fields: fields}
	}
	return filter, nil
}

func queryUUID(raw, field string, fields map[string]string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		fields[field] = "must be a valid id"
		return nil
	}
	return &id
}
