package course

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
	router.Get("/courses", h.ListCourses)
	router.Post("/courses", h.CreateCourse)
	router.Get("/courses/{id}", h.GetCourse)
	router.Put("/courses/{id}", h.UpdateCourse)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var course Course
	if err := httputil.DecodeJSON(r, &course); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "creating course", "name", course.CourseName)
	created, err := h.service.CreateCourse(r.Context(), &course)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrCourseNotFound)
		return
	}

	course, err := h.service.GetCourse(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, course)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrCourseNotFound)
		return
	}

	var course Course
	if err := httputil.DecodeJSON(r, &course); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}
	course.ID = id

	h.logger.InfoContext(r.Context(), "updating course", "id", id)
	updated, err := h.service.UpdateCourse(r.Context(), &course)
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
	if errors.Is(err, ErrCourseNotFound) {
		h.logger.InfoContext(r.Context(), "course not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Course not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "course request failed", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
