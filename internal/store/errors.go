package store

import "fmt"

// ValidationError reports malformed or out-of-range input before any write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing lot, transaction or (product, size) match.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string { return e.Reason }

func notFoundf(format string, args ...any) error {
	return &NotFoundError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports a deduction that would drive a lot's stock
// below zero. The lot is left untouched.
type InsufficientStockError struct {
	ProductName string
	Size        string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): %d available, %d requested",
		e.ProductName, e.Size, e.Available, e.Requested)
}
