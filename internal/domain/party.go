package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PartyKind distinguishes customers from vendors. Names are unique per kind.
type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartyVendor   PartyKind = "vendor"
)

// Party is a customer or a vendor.
type Party struct {
	ID        int64
	Kind      PartyKind `validate:"oneof=customer vendor"`
	Name      string    `validate:"required,max=200"`
	GSTIN     string    `validate:"omitempty,len=15,alphanum,uppercase"`
	Address   string    `validate:"max=500"`
	Phone     string    `validate:"max=40"`
	Email     string    `validate:"omitempty,email"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewParty creates a party with trimmed identity fields
func NewParty(kind PartyKind, name, gstin string) *Party {
	now := time.Now()
	return &Party{
		Kind:      kind,
		Name:      strings.TrimSpace(name),
		GSTIN:     strings.ToUpper(strings.TrimSpace(gstin)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate returns a FieldError for the first invalid field
func (p *Party) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.GSTIN = strings.ToUpper(strings.TrimSpace(p.GSTIN))
	return validateStruct(p)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct maps validator output onto the domain error taxonomy.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{Field: strings.ToLower(fe.Field()), Reason: describeTag(fe)}
	}
	return &FieldError{Field: "input", Reason: err.Error()}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "len":
		return "must be " + fe.Param() + " characters"
	case "alphanum":
		return "must be alphanumeric"
	case "uppercase":
		return "must be upper case"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
