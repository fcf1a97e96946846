package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the consistency core. Handlers map these onto HTTP
// status codes; services wrap them with %w so errors.Is keeps working
// through added context.
var (
	// ErrNotFound: the referenced entity does not exist or belongs to
	// another owner. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("record not found")

	// ErrValidation: malformed or out-of-range input, rejected before any
	// storage mutation.
	ErrValidation = errors.New("validation failed")

	// ErrOverpayment: amount_paid exceeds the purchase total.
	ErrOverpayment = errors.New("amount paid exceeds total")

	// ErrInsufficientStock: a sale line asks for more than the purchase
	// item still has available.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrBelowSoldQuantity: an item's quantity cannot shrink below what
	// sales already consumed.
	ErrBelowSoldQuantity = errors.New("quantity below sold quantity")

	// ErrItemHasSales: a purchase item with recorded sales cannot be
	// deleted, nor can its purchase.
	ErrItemHasSales = errors.New("item has recorded sales")

	// ErrLinkedRecordImmutable: a ledger row created by the purchase or
	// sale workflow cannot be edited or deleted directly.
	ErrLinkedRecordImmutable = errors.New("linked transaction is system-managed")

	// ErrConflict: a precondition on the aggregate state failed (e.g.
	// deleting a supplier with purchase history).
	ErrConflict = errors.New("operation conflicts with existing records")
)

// FieldError carries the input path that failed ("items[2].quantity") so
// the caller can render targeted feedback. Unwrap preserves the sentinel.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

func validationErr(field, msg string) error {
	return &FieldError{Field: field, Err: fmt.Errorf("%w: %s", ErrValidation, msg)}
}
