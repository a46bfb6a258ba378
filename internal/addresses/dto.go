package addresses

// CreateInput carries a full shipping or billing address. Addresses are
// immutable once saved; an edit submits a new CreateInput and gets a new row.
type CreateInput struct {
	Name       string  `json:"name" validate:"required,min=1,max=120"`
	Phone      string  `json:"phone" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Line1      string  `json:"line1" validate:"required,min=1,max=255"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=255"`
	City       string  `json:"city" validate:"required,min=1,max=120"`
	State      string  `json:"state" validate:"required,min=1,max=120"`
	PostalCode string  `json:"postal_code" validate:"required,min=3,max=12"`
	Country    string  `json:"country" validate:"required,len=2"`
}
