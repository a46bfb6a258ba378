package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics counts the funnel events the checkout flow emits.
type CheckoutMetrics struct {
	ordersCreated *prometheus.CounterVec
	verifications *prometheus.CounterVec
	amount        *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Draft orders created, by payment method.",
	}, []string{"method"})
	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payment_verifications_total",
		Help: "Payment verification attempts, by outcome.",
	}, []string{"outcome"})
	amount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_order_amount_cents",
		Help:    "Order totals at draft time, in paise.",
		Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
	}, []string{"method"})
	reg.MustRegister(ordersCreated, verifications, amount)
	return &CheckoutMetrics{
		ordersCreated: ordersCreated,
		verifications: verifications,
		amount:        amount,
	}
}

// IncOrderCreated records a draft order for the given payment method.
func (c *CheckoutMetrics) IncOrderCreated(method string, amountCents int64) {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.WithLabelValues(normalizeLabel(method)).Inc()
	c.amount.WithLabelValues(normalizeLabel(method)).Observe(float64(amountCents))
}

// IncVerification records a verification attempt outcome
// (verified, signature_mismatch, replay, failed).
func (c *CheckoutMetrics) IncVerification(outcome string) {
	if c == nil || c.verifications == nil {
		return
	}
	c.verifications.WithLabelValues(normalizeLabel(outcome)).Inc()
}
