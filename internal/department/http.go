package department

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
	router.Get("/departments", h.ListDepartments)
	router.Post("/departments", h.CreateDepartment)
	router.Get("/departments/{id}", h.GetDepartment)
	router.Put("/departments/{id}", h.UpdateDepartment)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var department Department
	if err := httputil.DecodeJSON(r, &department); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "creating department", "name", department.DepartmentName)
	created, err := h.service.CreateDepartment(r.Context(), &department)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.service.ListDepartments(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, departments)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrDepartmentNotFound)
		return
	}

	department, err := h.service.GetDepartment(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, department)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrDepartmentNotFound)
		return
	}

	var department Department
	if err := httputil.DecodeJSON(r, &department); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}
	department.ID = id

	h.logger.InfoContext(r.Context(), "updating department", "id", id)
	updated, err := h.service.UpdateDepartment(r.Context(), &department)
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
	if errors.Is(err, ErrDepartmentNotFound) {
		h.logger.InfoContext(r.Context(), "department not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Department not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "department request failed", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
