package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spicekart/storefront-backend/api/routes"
	"github.com/spicekart/storefront-backend/internal/addresses"
	"github.com/spicekart/storefront-backend/internal/cart"
	checkoutsvc "github.com/spicekart/storefront-backend/internal/checkout"
	"github.com/spicekart/storefront-backend/internal/coupons"
	"github.com/spicekart/storefront-backend/internal/orders"
	paymentsvc "github.com/spicekart/storefront-backend/internal/payments"
	"github.com/spicekart/storefront-backend/internal/pricing"
	"github.com/spicekart/storefront-backend/internal/products"
	razorpaywebhook "github.com/spicekart/storefront-backend/internal/webhooks/razorpay"
	"github.com/spicekart/storefront-backend/pkg/config"
	"github.com/spicekart/storefront-backend/pkg/db"
	"github.com/spicekart/storefront-backend/pkg/logger"
	"github.com/spicekart/storefront-backend/pkg/metrics"
	"github.com/spicekart/storefront-backend/pkg/migrate"
	"github.com/spicekart/storefront-backend/pkg/razorpay"
	"github.com/spicekart/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	razorpayClient, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap razorpay client", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(promRegistry)

	engine := pricing.NewEngine(pricing.Policy{
		TaxRatePercent:             cfg.Checkout.TaxRatePercent,
		FreeShippingThresholdCents: cfg.Checkout.FreeShippingThresholdCents,
		FlatShippingCents:          cfg.Checkout.FlatShippingCents,
	})

	gdb := dbClient.DB()
	couponRepo := coupons.NewRepository(gdb)

	cartService, err := cart.NewService(cart.NewRepository(gdb), products.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	couponService, err := coupons.NewService(couponRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	addressService, err := addresses.NewService(addresses.NewRepository(gdb), cfg.Checkout.PhoneRegexp())
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(gdb), couponRepo, dbClient, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	gateway, err := paymentsvc.NewRazorpayGateway(razorpayClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway", err)
		os.Exit(1)
	}

	paymentService, err := paymentsvc.NewService(gateway, orderService, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	checkoutStore, err := checkoutsvc.NewStore(redisClient, cfg.Checkout.DraftTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout store", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		checkoutStore,
		cartService,
		couponService,
		engine,
		addressService,
		orderService,
		gateway,
		cfg.Checkout.Currency,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	webhookService, err := razorpaywebhook.NewService(razorpaywebhook.ServiceParams{
		Orders:   orderService,
		Checkout: checkoutService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := razorpaywebhook.NewIdempotencyGuard(redisClient, cfg.Webhook.IdempotencyTTL, "razorpay-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"razorpay_env": razorpayClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			engine,
			cartService,
			couponService,
			addressService,
			checkoutService,
			paymentService,
			orderService,
			webhookService,
			webhookGuard,
			promRegistry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
