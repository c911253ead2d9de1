package storefront

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound matches an *APIError for a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrLoginRequired matches every *LoginRequiredError.
	ErrLoginRequired = errors.New("login required")
	// ErrAdminRequired is returned for admin areas when the session is not an admin.
	ErrAdminRequired = errors.New("admin access required")
)

// LoginRequiredError is returned when an action needs a session. Message is meant
// for the user.
type LoginRequiredError struct {
	Message string
}

func (e *LoginRequiredError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrLoginRequired) hold.
func (e *LoginRequiredError) Is(target error) bool { return target == ErrLoginRequired }

func loginRequired(message string) error {
	return &LoginRequiredError{Message: message}
}

// ValidationError is input rejected locally. No state changed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// APIError is a non-2xx answer from the storefront API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("storefront api: %d %s", e.Status, e.Message)
}

// Is makes a 404 match ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// StockConflictError is the backend rejecting checkout because stock moved.
// The cart is left as it was so the user can act on the conflicts.
type StockConflictError struct {
	Message   string
	Conflicts []StockShortage
}

func (e *StockConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s size %s: %d requested, %d available", c.ProductID, c.Size, c.Requested, c.Available))
	}
	if len(parts) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}
