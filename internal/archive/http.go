package archive

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexa091904/semi-project/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	engine *Engine
	logger *slog.Logger
}

func NewHandler(engine *Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/archived", h.ListArchived)
	for _, kind := range listOrder {
		router.Post("/"+kind.Collection()+"/{id}/archive", h.Archive(kind))
		router.Post("/"+kind.Collection()+"/{id}/restore", h.Restore(kind))
	}
}

type listResponse struct {
	Items []Item `json:"items"`
}

func (h *Handler) ListArchived(w http.ResponseWriter, r *http.Request) {
	filter, fields := parseFilter(r)
	if len(fields) > 0 {
		httputil.RespondWithFieldErrors(w, fields)
		return
	}

	items, err := h.engine.List(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list archived records", "type", filter.Type, "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, listResponse{Items: items})
}

func (h *Handler) Archive(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.RespondWithError(w, http.StatusNotFound, kind.Title()+" not found")
			return
		}

		h.logger.InfoContext(r.Context(), "archiving record", "kind", kind, "id", id)
		if err := h.engine.Archive(r.Context(), kind, id); err != nil {
			h.handleServiceError(w, r, kind, err)
			return
		}

		httputil.RespondWithMessage(w, http.StatusOK, kind.Title()+" archived successfully")
	}
}

func (h *Handler) Restore(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.RespondWithError(w, http.StatusNotFound, kind.Title()+" not found")
			return
		}

		h.logger.InfoContext(r.Context(), "restoring record", "kind", kind, "id", id)
		if err := h.engine.Restore(r.Context(), kind, id); err != nil {
			h.handleServiceError(w, r, kind, err)
			return
		}

		httputil.RespondWithMessage(w, http.StatusOK, kind.Title()+" restored successfully")
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, kind Kind, err error) {
	if errors.Is(err, ErrNotFound) {
		h.logger.InfoContext(r.Context(), "record not found", "kind", kind)
		httputil.RespondWithError(w, http.StatusNotFound, kind.Title()+" not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "archive transition failed", "kind", kind, "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}

func parseFilter(r *http.Request) (Filter, map[string]string) {
	q := r.URL.Query()
	fields := make(map[string]string)

	t, err := ParseType(q.Get("type"))
	if err != nil {
		fields["type"] = "must be one of all courses departments academic_years students faculty"
	}

	filter := Filter{
		Type:           t,
		Search:         q.Get("search"),
		DepartmentID:   optionalUUID(q.Get("department_id"), "department_id", fields),
		CourseID:       optionalUUID(q.Get("course_id"), "course_id", fields),
		AcademicYearID: optionalUUID(q.Get("academic_year_id"), "academic_year_id", fields),
	}
	return filter, fields
}

func optionalUUID(raw, field string, fields map[string]string) *uuid.UUID {
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
