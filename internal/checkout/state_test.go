package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/pkg/enums"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireStateConflict(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestAdvanceToReviewRequiresAddress(t *testing.T) {
	state := NewState()

	requireStateConflict(t, state.Advance(enums.CheckoutStepReview))

	addressID := uuid.New()
	state.Draft.ShippingAddressID = &addressID
	require.NoError(t, state.Advance(enums.CheckoutStepReview))
	assert.Equal(t, enums.CheckoutStepReview, state.Step)
}

func TestAdvanceCannotSkipSteps(t *testing.T) {
	state := NewState()
	addressID := uuid.New()
	state.Draft.ShippingAddressID = &addressID

	requireStateConflict(t, state.Advance(enums.CheckoutStepPayment))
	requireStateConflict(t, state.Advance(enums.CheckoutStepCompleted))
}

func TestFailedOnlyReachableFromPayment(t *testing.T) {
	state := NewState()
	requireStateConflict(t, state.Advance(enums.CheckoutStepFailed))

	state.Step = enums.CheckoutStepReview
	requireStateConflict(t, state.Advance(enums.CheckoutStepFailed))

	state.Step = enums.CheckoutStepPayment
	require.NoError(t, state.Advance(enums.CheckoutStepFailed))
}

func TestBackPreservesDraft(t *testing.T) {
	state := NewState()
	addressID := uuid.New()
	code := "WELCOME10"
	state.Draft.ShippingAddressID = &addressID
	state.Draft.CouponCode = &code
	require.NoError(t, state.Advance(enums.CheckoutStepReview))
	require.NoError(t, state.Advance(enums.CheckoutStepPayment))

	require.NoError(t, state.Back())
	assert.Equal(t, enums.CheckoutStepReview, state.Step)
	require.NoError(t, state.Back())
	assert.Equal(t, enums.CheckoutStepAddress, state.Step)

	assert.Equal(t, &addressID, state.Draft.ShippingAddressID)
	assert.Equal(t, &code, state.Draft.CouponCode)
}

func TestBackFromFailedReturnsToReview(t *testing.T) {
	state := NewState()
	state.Step = enums.CheckoutStepFailed

	require.NoError(t, state.Back())
	assert.Equal(t, enums.CheckoutStepReview, state.Step)
}

func TestCompletedIsTerminal(t *testing.T) {
	state := NewState()
	state.Step = enums.CheckoutStepCompleted

	requireStateConflict(t, state.Back())
	requireStateConflict(t, state.Advance(enums.CheckoutStepFailed))
}
