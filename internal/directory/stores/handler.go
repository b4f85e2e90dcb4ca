package stores

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/directory/areas"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

type StoreForm struct {
	Name             string   `json:"name" validate:"required"`
	Slug             string   `json:"slug,omitempty"`
	Status           string   `json:"status,omitempty"`
	DeliveryFee      float64  `json:"delivery_fee" validate:"gte=0"`
	FreeDeliveryOver *float64 `json:"free_delivery_over,omitempty"`
	MinimumOrder     float64  `json:"minimum_order" validate:"gte=0"`
	AreaIDs          []int64  `json:"area_ids"`
}

func (f StoreForm) model() Store {
	return Store{
		Name:             f.Name,
		Slug:             f.Slug,
		Status:           Status(f.Status),
		DeliveryFee:      f.DeliveryFee,
		FreeDeliveryOver: f.FreeDeliveryOver,
		MinimumOrder:     f.MinimumOrder,
		AreaIDs:          f.AreaIDs,
	}
}

type AreasForm struct {
	AreaIDs []int64 `json:"area_ids" validate:"required"`
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountAdmin(r chi.Router) {
	r.Route("/stores", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Put("/{id}/areas", h.SetAreas)
	})
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	var areaID *int64
	if raw := r.URL.Query().Get("area"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "area must be an integer")
			return
		}
		areaID = &id
	}

	stores, err := h.service.ListPublic(r.Context(), areaID)
	if err != nil {
		h.logger.Error("store listing failed", slog.Any("error", err))
		httpx.JSON(w, http.StatusOK, []Store{})
		return
	}
	cache.ControlHeaders(w, cache.ClassStores)
	httpx.JSON(w, http.StatusOK, stores)
}

func (h *Handler) GetPublic(w http.ResponseWriter, r *http.Request) {
	store, err := h.service.GetPublic(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	cache.ControlHeaders(w, cache.ClassStore)
	httpx.JSON(w, http.StatusOK, store)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.service.Home(r.Context())
	if err != nil {
		h.logger.Error("homepage composition failed", slog.Any("error", err))
		httpx.JSON(w, http.StatusOK, Homepage{Areas: []areas.Area{}, Stores: []Store{}})
		return
	}
	cache.ControlHeaders(w, cache.ClassHome)
	httpx.JSON(w, http.StatusOK, home)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListAll(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stores)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	store, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, store)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form StoreForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), form.model())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var form StoreForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.Update(r.Context(), id, form.model()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetAreas(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var form AreasForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.service.SetAreas(r.Context(), id, form.AreaIDs); err != nil {
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
