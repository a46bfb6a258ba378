package addresses

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAddressRepo struct {
	created  []*models.Address
	findErr  error
	existing *models.Address
}

func (s *stubAddressRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAddressRepo) Create(ctx context.Context, address *models.Address) (*models.Address, error) {
	address.ID = uuid.New()
	s.created = append(s.created, address)
	return address, nil
}

func (s *stubAddressRepo) FindForBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Address, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.existing, nil
}

func (s *stubAddressRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Address, error) {
	return nil, nil
}

var testPhonePattern = regexp.MustCompile(`^\+?[0-9]{10,14}$`)

func validInput() CreateInput {
	return CreateInput{
		Name:       "Asha Rao",
		Phone:      "+919876543210",
		Email:      "Asha@Example.com",
		Line1:      "14 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    "in",
	}
}

func TestCreateNormalizesAndInserts(t *testing.T) {
	repo := &stubAddressRepo{}
	svc, err := NewService(repo, testPhonePattern)
	require.NoError(t, err)

	saved, err := svc.Create(context.Background(), uuid.New(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", saved.Email)
	assert.Equal(t, "IN", saved.Country)
	require.Len(t, repo.created, 1)
}

func TestCreateAlwaysInsertsNewRow(t *testing.T) {
	repo := &stubAddressRepo{}
	svc, err := NewService(repo, testPhonePattern)
	require.NoError(t, err)
	buyerID := uuid.New()

	first, err := svc.Create(context.Background(), buyerID, validInput())
	require.NoError(t, err)

	edited := validInput()
	edited.Line1 = "15 MG Road"
	second, err := svc.Create(context.Background(), buyerID, edited)
	require.NoError(t, err)

	// Edits never touch the original row.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, repo.created, 2)
}

func TestCreateRejectsIncompleteAddress(t *testing.T) {
	svc, err := NewService(&stubAddressRepo{}, testPhonePattern)
	require.NoError(t, err)

	input := validInput()
	input.PostalCode = ""
	_, err = svc.Create(context.Background(), uuid.New(), input)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateRejectsBadPhone(t *testing.T) {
	svc, err := NewService(&stubAddressRepo{}, testPhonePattern)
	require.NoError(t, err)

	input := validInput()
	input.Phone = "call me"
	_, err = svc.Create(context.Background(), uuid.New(), input)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetNotFound(t *testing.T) {
	svc, err := NewService(&stubAddressRepo{findErr: gorm.ErrRecordNotFound}, testPhonePattern)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
