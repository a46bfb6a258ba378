package razorpaywebhook

// Event names delivered by the provider that the checkout core reacts to.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// Event is the provider's webhook envelope, trimmed to the fields the
// checkout core reads.
type Event struct {
	EventID string  `json:"-"`
	Name    string  `json:"event"`
	Payload Payload `json:"payload"`
}

type Payload struct {
	Payment PaymentWrapper `json:"payment"`
}

type PaymentWrapper struct {
	Entity PaymentEntity `json:"entity"`
}

// PaymentEntity carries the provider payment the event is about.
type PaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	ErrorDescription string `json:"error_description"`
}
