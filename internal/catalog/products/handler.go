package products

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/observability"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	metrics  *observability.Metrics
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// MountPublic registers the storefront listing under the store subtree.
// Expects to be mounted where {slug} is already bound.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/products", h.ListStorefront)
}

// MountAdmin registers the catalog mutation endpoints.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.AdminListGlobal)
		r.Post("/", h.AdminCreateGlobal)
		r.Get("/{id}", h.AdminGetGlobal)
		r.Put("/{id}", h.AdminUpdateGlobal)
		r.Delete("/{id}", h.AdminDeleteGlobal)
	})
	r.Route("/store-products", func(r chi.Router) {
		r.Get("/", h.AdminListStoreProducts)
		r.Post("/", h.AdminCreateStoreProduct)
		r.Get("/{id}", h.AdminGetStoreProduct)
		r.Put("/{id}", h.AdminUpdateStoreProduct)
		r.Delete("/{id}", h.AdminDeleteStoreProduct)
	})
}

// ListStorefront serves GET /api/stores/{slug}/products. Storage failures
// degrade to an empty page with a 200 so the storefront keeps rendering; the
// failure is visible in logs and the degraded-reads counter, never to the
// shopper.
func (h *Handler) ListStorefront(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	q, err := parsePageQuery(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	page, err := h.service.ListStorefront(r.Context(), slug, q)
	switch {
	case err == nil:
	case errors.Is(err, httpx.ErrValidation), errors.Is(err, httpx.ErrNotFound):
		httpx.RespondError(w, err)
		return
	default:
		h.logger.Error("storefront listing degraded",
			slog.String("store", slug),
			slog.Any("error", err))
		h.metrics.DegradedRead("/api/stores/{slug}/products")
		page = Page{Items: []EffectiveProduct{}}
	}

	cache.ControlHeaders(w, cache.ClassProducts)
	httpx.JSON(w, http.StatusOK, page)
}

func parsePageQuery(r *http.Request) (PageQuery, error) {
	values := r.URL.Query()
	q := PageQuery{
		Search:    values.Get("search"),
		Sort:      SortMode(values.Get("sort")),
		StockOnly: true,
	}

	if raw := values.Get("cursor"); raw != "" {
		cursor, err := strconv.Atoi(raw)
		if err != nil {
			return PageQuery{}, fmt.Errorf("cursor must be an integer: %w", httpx.ErrValidation)
		}
		q.Cursor = cursor
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return PageQuery{}, fmt.Errorf("limit must be an integer: %w", httpx.ErrValidation)
		}
		q.PageSize = limit
	}
	if raw := values.Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return PageQuery{}, fmt.Errorf("categoryId must be an integer: %w", httpx.ErrValidation)
		}
		q.CategoryID = &id
	}
	if raw := values.Get("inStockOnly"); raw != "" {
		stockOnly, err := strconv.ParseBool(raw)
		if err != nil {
			return PageQuery{}, fmt.Errorf("inStockOnly must be a boolean: %w", httpx.ErrValidation)
		}
		q.StockOnly = stockOnly
	}
	return q, nil
}

func (h *Handler) AdminListGlobal(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	filters := AdminListFilters{Search: values.Get("search")}
	filters.Page, _ = strconv.Atoi(values.Get("page"))
	if filters.Page < 1 {
		filters.Page = 1
	}
	filters.Limit, _ = strconv.Atoi(values.Get("limit"))
	if filters.Limit < 1 {
		filters.Limit = 20
	}
	if raw := values.Get("category_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.CategoryID = &id
		}
	}
	if raw := values.Get("is_active"); raw != "" {
		isActive := raw == "true"
		filters.IsActive = &isActive
	}

	items, total, err := h.service.ListGlobal(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse[GlobalProduct]{Items: items, Total: total})
}

func (h *Handler) AdminGetGlobal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.GetGlobal(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) AdminCreateGlobal(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.service.CreateGlobal(r.Context(), form.model())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) AdminUpdateGlobal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.UpdateGlobal(r.Context(), id, form.model()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminDeleteGlobal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteGlobal(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminListStoreProducts(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	storeID, err := strconv.ParseInt(values.Get("store_id"), 10, 64)
	if err != nil || storeID < 1 {
		httpx.Error(w, http.StatusBadRequest, "store_id query parameter is required")
		return
	}
	page, _ := strconv.Atoi(values.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(values.Get("limit"))
	if limit < 1 {
		limit = 20
	}

	items, total, err := h.service.ListStoreProducts(r.Context(), storeID, page, limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse[StoreProduct]{Items: items, Total: total})
}

func (h *Handler) AdminGetStoreProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	sp, err := h.service.GetStoreProduct(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sp)
}

func (h *Handler) AdminCreateStoreProduct(w http.ResponseWriter, r *http.Request) {
	var form StoreProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.service.CreateStoreProduct(r.Context(), form.model())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) AdminUpdateStoreProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var form StoreProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.UpdateStoreProduct(r.Context(), id, form.model()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminDeleteStoreProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteStoreProduct(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %w", httpx.ErrValidation)
	}
	return id, nil
}
