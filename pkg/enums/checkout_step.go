package enums

import "fmt"

// CheckoutStep names the ordered steps of the checkout flow. The failed step
// is absorbing and reachable from payment only; address and review problems
// never fail the whole checkout, they just block forward progress.
type CheckoutStep string

const (
	CheckoutStepAddress   CheckoutStep = "address_selection"
	CheckoutStepReview    CheckoutStep = "review"
	CheckoutStepPayment   CheckoutStep = "payment"
	CheckoutStepCompleted CheckoutStep = "completed"
	CheckoutStepFailed    CheckoutStep = "failed"
)

var validCheckoutSteps = []CheckoutStep{
	CheckoutStepAddress,
	CheckoutStepReview,
	CheckoutStepPayment,
	CheckoutStepCompleted,
	CheckoutStepFailed,
}

// String implements fmt.Stringer.
func (c CheckoutStep) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStep.
func (c CheckoutStep) IsValid() bool {
	for _, candidate := range validCheckoutSteps {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave this step.
func (c CheckoutStep) IsTerminal() bool {
	return c == CheckoutStepCompleted || c == CheckoutStepFailed
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range validCheckoutSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
