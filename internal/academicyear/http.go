package academicyear

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
	router.Get("/academic-years", h.ListAcademicYears)
	router.Post("/academic-years", h.CreateAcademicYear)
	router.Get("/academic-years/{id}", h.GetAcademicYear)
	router.Put("/academic-years/{id}", h.UpdateAcademicYear)
}

func (h *Handler) CreateAcademicYear(w http.ResponseWriter, r *http.Request) {
	var year AcademicYear
	if err := httputil.DecodeJSON(r, &year); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "creating academic year", "start_year", year.StartYear)
	created, err := h.service.CreateAcademicYear(r.Context(), &year)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListAcademicYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.ListAcademicYears(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, years)
}

func (h *Handler) GetAcademicYear(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrAcademicYearNotFound)
		return
	}

	year, err := h.service.GetAcademicYear(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, year)
}

func (h *Handler) UpdateAcademicYear(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, ErrAcademicYearNotFound)
		return
	}

	var year AcademicYear
	if err := httputil.DecodeJSON(r, &year); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}
	year.ID = id

	h.logger.InfoContext(r.Context(), "updating academic year", "id", id)
	updated, err := h.service.UpdateAcademicYear(r.Context(), &year)
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
	if errors.Is(err, ErrAcademicYearNotFound) {
		h.logger.InfoContext(r.Context(), "academic year not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Academic year not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "academic year request failed", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
