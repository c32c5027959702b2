package report

import (
	"log/slog"
	"net/http"

	"github.com/alexa091904/semi-project/internal/httputil"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/reports", h.GetOptions)
	router.Post("/reports/students", h.GenerateStudents)
	router.Post("/reports/faculty", h.GenerateFaculty)
}

func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, opts)
}

func (h *Handler) GenerateStudents(w http.ResponseWriter, r *http.Request) {
	var req StudentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "generating student report", "status", req.Status)
	snapshot, err := h.service.Students(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) GenerateFaculty(w http.ResponseWriter, r *http.Request) {
	var req FacultyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "generating faculty report", "status", req.Status)
	snapshot, err := h.service.Faculty(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if vErr, ok := validation.AsError(err); ok {
		httputil.RespondWithFieldErrors(w, vErr.Fields)
		return
	}
	h.logger.ErrorContext(r.Context(), "report request failed", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
