package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the core wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence error")
	ErrExport      = errors.New("export error")
)

// Specific failures, each classified under one of the classes above.
var (
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	ErrInvalidPrice    = fmt.Errorf("%w: unit price must be positive", ErrValidation)
	ErrInvalidRate     = fmt.Errorf("%w: tax rate must be one of 0, 5, 12, 18, 28", ErrValidation)
	ErrInvalidRange    = fmt.Errorf("%w: from date must not be after to date", ErrValidation)
	ErrEmptyDocument   = fmt.Errorf("%w: document has no line items", ErrValidation)
	ErrUnbalanced      = fmt.Errorf("%w: subtotal and tax components do not add up to grand total", ErrValidation)

	ErrUnknownParty    = fmt.Errorf("%w: party does not exist", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("%w: product does not exist", ErrNotFound)
	ErrInvoiceNotFound = fmt.Errorf("%w: invoice does not exist", ErrNotFound)

	ErrDuplicateInvoiceNumber = fmt.Errorf("%w: invoice number already used", ErrConflict)
	ErrDuplicateName          = fmt.Errorf("%w: name already used", ErrConflict)
	ErrPartyInUse             = fmt.Errorf("%w: party is referenced by existing documents", ErrConflict)
	ErrProductInUse           = fmt.Errorf("%w: product is referenced by existing invoices", ErrConflict)
)

// FieldError reports which input field failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
}

// Unwrap classifies every FieldError as a validation error.
func (e *FieldError) Unwrap() error {
	return ErrValidation
}
