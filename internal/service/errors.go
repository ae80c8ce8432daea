package service

import (
	"errors"
	"fmt"

	"go-ledger-api/pkg/validator"
)

var (
	// ErrOutOfStock aborts the whole enclosing transaction: an outbound
	// delta may never drive on-hand quantity negative.
	ErrOutOfStock = errors.New("insufficient stock remaining")
	// ErrOverpayment rejects a payment that would push paid_amount past
	// total_amount.
	ErrOverpayment = errors.New("payment exceeds pending invoice balance")
	// ErrOverDiscount rejects a discount larger than what is left to
	// discount on the invoice.
	ErrOverDiscount = errors.New("discount exceeds remaining invoice amount")
	// ErrNotFound covers unknown invoice/product/counterparty references.
	ErrNotFound = errors.New("referenced record not found")
	// ErrInvoiceNotPending guards operations that only apply before an
	// invoice is settled.
	ErrInvoiceNotPending = errors.New("invoice is no longer pending")
)

// ValidationError carries the first failed field so callers get an
// entity-identifying message instead of a bare boolean.
type ValidationError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", e.Field, e.Tag)
}

func validationErr(field, tag string) error {
	return &ValidationError{Field: field, Tag: tag}
}

func firstValidationError(errs []*validator.ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Field: errs[0].FailedField, Tag: errs[0].Tag}
}

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}
