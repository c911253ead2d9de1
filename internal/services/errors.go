package services

import (
	"errors"
	"fmt"
	"strings"

	"lyyn/internal/models"
)

var (
	// ErrForbidden is returned when a user acts on a resource they do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries a user-facing message for input the service rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness clash such as an already registered email.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// InsufficientStockError lists the order lines the current stock cannot serve.
type InsufficientStockError struct {
	Shortages []models.StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s size %s (requested: %d, available: %d)", s.ProductID, s.Size, s.Requested, s.Available))
	}
	return "insufficient stock for " + strings.Join(parts, ", ")
}
