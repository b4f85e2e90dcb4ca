package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mercato-app/mercato/internal/platform/httpx"
)

type listResponse struct {
	Items []TimelineRow `json:"items"`
	Total int           `json:"total"`
}

// Handler exposes the audit timeline to the admin surface.
type Handler struct {
	logger   *slog.Logger
	recorder *Recorder
}

func NewHandler(logger *slog.Logger, recorder *Recorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, recorder: recorder}
}

func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/audit-logs", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	filters := TimelineFilters{
		Entity: values.Get("entity"),
		Action: values.Get("action"),
	}
	filters.Page, _ = strconv.Atoi(values.Get("page"))
	filters.PageSize, _ = strconv.Atoi(values.Get("limit"))
	if raw := values.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		filters.Since = since
	}

	items, total, err := h.recorder.Timeline(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Total: total})
}
