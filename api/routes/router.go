package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spicekart/storefront-backend/api/controllers"
	webhookcontrollers "github.com/spicekart/storefront-backend/api/controllers/webhooks"
	"github.com/spicekart/storefront-backend/api/middleware"
	"github.com/spicekart/storefront-backend/internal/addresses"
	"github.com/spicekart/storefront-backend/internal/cart"
	checkoutsvc "github.com/spicekart/storefront-backend/internal/checkout"
	"github.com/spicekart/storefront-backend/internal/coupons"
	"github.com/spicekart/storefront-backend/internal/orders"
	paymentsvc "github.com/spicekart/storefront-backend/internal/payments"
	"github.com/spicekart/storefront-backend/internal/pricing"
	razorpaywebhook "github.com/spicekart/storefront-backend/internal/webhooks/razorpay"
	"github.com/spicekart/storefront-backend/pkg/config"
	"github.com/spicekart/storefront-backend/pkg/db"
	"github.com/spicekart/storefront-backend/pkg/logger"
	"github.com/spicekart/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	engine *pricing.Engine,
	cartService cart.Service,
	couponService coupons.Service,
	addressService addresses.Service,
	checkoutService checkoutsvc.Service,
	paymentService paymentsvc.Service,
	orderService orders.Service,
	razorpayWebhookService *razorpaywebhook.Service,
	razorpayWebhookGuard *razorpaywebhook.IdempotencyGuard,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if promGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/razorpay", webhookcontrollers.RazorpayWebhook(razorpayWebhookService, cfg.Webhook.Secret, razorpayWebhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, engine, logg))
			r.Put("/items/{variantId}", controllers.CartSetItem(cartService, engine, logg))
			r.Delete("/items/{variantId}", controllers.CartRemoveItem(cartService, engine, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Post("/coupons/preview", controllers.CouponPreview(couponService, cartService, engine, logg))

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutCurrent(checkoutService, logg))
			r.Post("/address", controllers.CheckoutAddress(checkoutService, logg))
			r.Post("/back", controllers.CheckoutBack(checkoutService, logg))
			r.Post("/submit", controllers.CheckoutSubmit(checkoutService, logg))
			r.Post("/confirm-cod", controllers.CheckoutConfirmCOD(checkoutService, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/verify", controllers.PaymentVerify(paymentService, checkoutService, logg))
			r.Post("/failed", controllers.PaymentFailed(paymentService, checkoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderNumber}", controllers.OrderDetail(orderService, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(addressService, logg))
			r.Post("/", controllers.AddressCreate(addressService, logg))
		})
	})

	return r
}
