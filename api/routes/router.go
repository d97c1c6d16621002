package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tacoloja/storefront-backend/api/controllers"
	"github.com/tacoloja/storefront-backend/api/middleware"
	cartsvc "github.com/tacoloja/storefront-backend/internal/cart"
	"github.com/tacoloja/storefront-backend/internal/coupons"
	"github.com/tacoloja/storefront-backend/internal/finance"
	productsvc "github.com/tacoloja/storefront-backend/internal/products"
	"github.com/tacoloja/storefront-backend/internal/settings"
	syncengine "github.com/tacoloja/storefront-backend/internal/sync"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	cacheP controllers.Pinger,
	remoteP controllers.Pinger,
	productService *productsvc.Service,
	cartService *cartsvc.Service,
	couponRegistry *coupons.Registry,
	settingsService *settings.Service,
	syncEngine *syncengine.Engine,
	ledger *finance.Ledger,
	promGatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, cacheP, remoteP))
	})

	if promGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.SaveProduct(productService, logg))
			r.Get("/{productId}", controllers.GetProduct(productService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(productService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories())
			r.Get("/resolve", controllers.ResolveCategory())
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Put("/items", controllers.UpdateCartItem(cartService, logg))
			r.Post("/items/remove", controllers.RemoveCartItem(cartService, logg))
			r.Delete("/", controllers.ClearCart(cartService, logg))
			r.Post("/coupon", controllers.ApplyCartCoupon(cartService, logg))
			r.Delete("/coupon", controllers.RemoveCartCoupon(cartService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.ListCoupons(couponRegistry, logg))
			r.Post("/", controllers.AddCoupon(couponRegistry, logg))
			r.Delete("/{couponCode}", controllers.DeleteCoupon(couponRegistry, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(settingsService, logg))
			r.Put("/", controllers.SaveSettings(settingsService, logg))
			r.Post("/reset", controllers.ResetSettings(settingsService, logg))
			r.Post("/pull", controllers.PullSettings(settingsService, logg))
		})

		r.Post("/sync", controllers.TriggerSync(syncEngine, logg))

		r.Route("/finance", func(r chi.Router) {
			r.Get("/records", controllers.ListFinancialRecords(ledger, logg))
			r.Post("/records", controllers.SaveFinancialRecord(ledger, logg))
			r.Delete("/records/{recordId}", controllers.DeleteFinancialRecord(ledger, logg))
			r.Post("/records/{recordId}/archive", controllers.ArchiveFinancialRecord(ledger, logg))
			r.Get("/summary", controllers.FinancialSummary(ledger, logg))
		})
	})

	return r
}
