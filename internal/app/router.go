package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercato-app/mercato/internal/audit"
	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/catalog/brands"
	"github.com/mercato-app/mercato/internal/catalog/categories"
	"github.com/mercato-app/mercato/internal/catalog/products"
	"github.com/mercato-app/mercato/internal/directory/areas"
	"github.com/mercato-app/mercato/internal/directory/stores"
	"github.com/mercato-app/mercato/internal/observability"
	"github.com/mercato-app/mercato/internal/orders"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	ProductsHandler   *products.Handler
	CategoriesHandler *categories.Handler
	BrandsHandler     *brands.Handler
	AreasHandler      *areas.Handler
	StoresHandler     *stores.Handler
	OrdersHandler     *orders.Handler
	AuditHandler      *audit.Handler
	CacheHandler      *cache.Handler
	Pool              *pgxpool.Pool
	Metrics           *observability.Metrics
}

// NewRouter assembles the HTTP surface: public storefront reads, the admin
// mutation gateway, cache invalidation and operational endpoints.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Route("/api", func(r chi.Router) {
		params.AreasHandler.MountPublic(r)
		r.Get("/home", params.StoresHandler.Home)
		r.Route("/stores", func(r chi.Router) {
			r.Get("/", params.StoresHandler.ListPublic)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", params.StoresHandler.GetPublic)
				params.ProductsHandler.MountPublic(r)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			params.ProductsHandler.MountAdmin(r)
			params.CategoriesHandler.MountAdmin(r)
			params.BrandsHandler.MountAdmin(r)
			params.AreasHandler.MountAdmin(r)
			params.StoresHandler.MountAdmin(r)
			params.OrdersHandler.MountAdmin(r)
			params.AuditHandler.MountAdmin(r)
		})

		params.CacheHandler.MountRoutes(r)
	})

	r.Get("/healthz", healthHandler(params.Pool))
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	return r
}

func healthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := pool.Ping(r.Context()); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
