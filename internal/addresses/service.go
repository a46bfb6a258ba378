package addresses

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service validates and stores immutable address records.
type Service interface {
	Create(ctx context.Context, buyerID uuid.UUID, input CreateInput) (*models.Address, error)
	Get(ctx context.Context, buyerID, id uuid.UUID) (*models.Address, error)
	List(ctx context.Context, buyerID uuid.UUID) ([]models.Address, error)
}

type service struct {
	repo         Repository
	validate     *validator.Validate
	phonePattern *regexp.Regexp
}

// NewService builds an address service. phonePattern comes from checkout
// configuration and gates the phone field beyond simple presence.
func NewService(repo Repository, phonePattern *regexp.Regexp) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("addresses repository required")
	}
	if phonePattern == nil {
		return nil, fmt.Errorf("phone pattern required")
	}
	return &service{
		repo:         repo,
		validate:     validator.New(),
		phonePattern: phonePattern,
	}, nil
}

func (s *service) Create(ctx context.Context, buyerID uuid.UUID, input CreateInput) (*models.Address, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity missing")
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "address incomplete").
			WithDetails(validationDetails(err))
	}
	if !s.phonePattern.MatchString(input.Phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address incomplete").
			WithDetails(map[string]any{"phone": "invalid format"})
	}

	address := &models.Address{
		BuyerID:    buyerID,
		Name:       strings.TrimSpace(input.Name),
		Phone:      strings.TrimSpace(input.Phone),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    strings.ToUpper(strings.TrimSpace(input.Country)),
	}

	saved, err := s.repo.Create(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
	}
	return saved, nil
}

func (s *service) Get(ctx context.Context, buyerID, id uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindForBuyer(ctx, id, buyerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return address, nil
}

func (s *service) List(ctx context.Context, buyerID uuid.UUID) ([]models.Address, error) {
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

func validationDetails(err error) map[string]any {
	details := map[string]any{}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return details
	}
	for _, fieldErr := range fieldErrors {
		details[strings.ToLower(fieldErr.Field())] = fieldErr.Tag()
	}
	return details
}
