package cache

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mercato-app/mercato/internal/platform/httpx"
)

// SecretHeader carries the shared revalidation secret.
const SecretHeader = "x-revalidate-secret"

// RevalidateRequest is the on-demand invalidation payload.
type RevalidateRequest struct {
	Type string `json:"type"`
	Tag  string `json:"tag,omitempty"`
	Path string `json:"path,omitempty"`
}

// Handler exposes the authenticated invalidation endpoint.
type Handler struct {
	logger *slog.Logger
	store  *Store
	secret string
}

// NewHandler constructs the revalidation handler.
func NewHandler(logger *slog.Logger, store *Store, secret string) *Handler {
	return &Handler{logger: logger, store: store, secret: secret}
}

// MountRoutes registers the invalidation endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/revalidate", h.Revalidate)
}

// Revalidate discards cache entries by tag or path, closing the staleness
// window immediately instead of waiting out the TTL.
func (h *Handler) Revalidate(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		httpx.Error(w, http.StatusInternalServerError, "revalidation secret not configured")
		return
	}
	if !SecretEqual(r.Header.Get(SecretHeader), h.secret) {
		httpx.Error(w, http.StatusUnauthorized, "invalid revalidation secret")
		return
	}

	var req RevalidateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	switch req.Type {
	case "tag":
		if !ValidTag(req.Tag) {
			httpx.Error(w, http.StatusBadRequest, "invalid tag")
			return
		}
		if err := h.store.InvalidateTag(r.Context(), req.Tag); err != nil {
			h.logger.Error("tag invalidation failed", slog.String("tag", req.Tag), slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "invalidation failed")
			return
		}
		h.logger.Info("cache tag invalidated", slog.String("tag", req.Tag))
		httpx.JSON(w, http.StatusOK, map[string]any{"revalidated": true, "tag": req.Tag})
	case "path":
		if req.Path == "" || req.Path[0] != '/' {
			httpx.Error(w, http.StatusBadRequest, "invalid path")
			return
		}
		if err := h.store.InvalidatePath(r.Context(), req.Path); err != nil {
			h.logger.Error("path invalidation failed", slog.String("path", req.Path), slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "invalidation failed")
			return
		}
		h.logger.Info("cache path invalidated", slog.String("path", req.Path))
		httpx.JSON(w, http.StatusOK, map[string]any{"revalidated": true, "path": req.Path})
	default:
		httpx.Error(w, http.StatusBadRequest, "type must be \"tag\" or \"path\"")
	}
}

// ControlHeaders writes the Cache-Control directives for a resource class on
// public read responses.
func ControlHeaders(w http.ResponseWriter, class Class) {
	secs := strconv.Itoa(int(class.TTL.Seconds()))
	w.Header().Set("Cache-Control", "public, max-age="+secs+", stale-while-revalidate="+secs)
}
