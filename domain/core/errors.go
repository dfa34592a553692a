package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrIngestion       = errors.New("ingestion error")
	ErrColumnSelection = errors.New("column selection error")
	ErrTypeMismatch    = errors.New("type mismatch")

	// Computation errors
	ErrInsufficientData = errors.New("insufficient data for regression")
	ErrDegenerateInput  = errors.New("degenerate input: x has zero variance")

	// Session errors
	ErrNotFound        = errors.New("resource not found")
	ErrNoDataset       = fmt.Errorf("%w: dataset", ErrNotFound)
	ErrNoResult        = fmt.Errorf("%w: regression result", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
)

// Error constructors with context
func NewIngestionError(source string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrIngestion, source, reason)
}

func WrapIngestionError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrIngestion, source, err)
}

func NewColumnSelectionError(column string, reason string) error {
	return fmt.Errorf("%w: column %q %s", ErrColumnSelection, column, reason)
}

func NewTypeMismatchError(column string, kind string) error {
	return fmt.Errorf("%w: column %q is %s, numeric required", ErrTypeMismatch, column, kind)
}

func NewInsufficientDataError(n int) error {
	return fmt.Errorf("%w: need at least 2 complete observations, got %d", ErrInsufficientData, n)
}

func NewLengthMismatchError(nx, ny int) error {
	return fmt.Errorf("%w: x has %d values, y has %d", ErrInsufficientData, nx, ny)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInputError reports whether err was caused by the uploaded file or the
// column selection rather than by the numbers themselves.
func IsInputError(err error) bool {
	return errors.Is(err, ErrIngestion) ||
		errors.Is(err, ErrColumnSelection)
}

// IsComputationError reports whether err means the selected data cannot be fit.
func IsComputationError(err error) bool {
	return errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateInput)
}
