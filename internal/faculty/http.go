package faculty

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
	router.Get("/faculty", h.ListFaculty)
	router.Post("/faculty", h.CreateFaculty)
	router.Get("/faculty/{id}", h.GetFaculty)
	router.Put("/faculty/{id}", h.UpdateFaculty)
}

func (h *Handler) CreateFaculty(w http.ResponseWriter, r *http.Request) {
	var member Faculty
	if err := httputil.DecodeJSON(r, &member); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "creating faculty", "email", member.EmailAddress)
	created, err := h.service.CreateFaculty(r.Context(), &member)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListFaculty(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	members, err := h.service.ListFaculty(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, members)
}

func (h *Handler) GetFaculty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrFacultyNotFound)
		return
	}

	member, err := h.service.GetFaculty(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, member)
}

func (h *Handler) UpdateFaculty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrFacultyNotFound)
		return
	}

	var member Faculty
	if err := httputil.DecodeJSON(r, &member); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}
	member.ID = id

	h.logger.InfoContext(r.Context(), "updating faculty", "id", id)
	updated, err := h.service.UpdateFaculty(r.Context(), &member)
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
	if errors.Is(err, ErrFacultyNotFound) {
		h.logger.InfoContext(r.Context(), "faculty not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Faculty not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "faculty request failed", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
	}

	if raw := q.Get("department_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, validation.FieldError("department_id", "must be a valid id")
		}
		filter.DepartmentID = &id
	}

	switch filter.Status {
	case "", StatusActive, StatusInactive:
	default:
		return filter, validation.FieldError("status", "must be one of: Active, Inactive")
	}
	return filter, nil
}
