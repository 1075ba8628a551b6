// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCustomerNotFound signals that no customer matches the given key.
type ErrCustomerNotFound struct {
	ID    int
	Email string
}

func (e *ErrCustomerNotFound) Error() string {
	if e.Email != "" {
		return fmt.Sprintf("customer with email %s not found", e.Email)
	}
	return fmt.Sprintf("customer with ID %d not found", e.ID)
}

// NewCustomerNotFound builds a not-found error for an id lookup.
func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{ID: id}
}

// NewCustomerNotFoundByEmail builds a not-found error for an email lookup.
func NewCustomerNotFoundByEmail(email string) error {
	return &ErrCustomerNotFound{Email: email}
}

// ErrDuplicateEmail signals a uniqueness violation on email at create time.
type ErrDuplicateEmail struct {
	Email string
}

func (e *ErrDuplicateEmail) Error() string {
	return fmt.Sprintf("a customer with email %s already exists", e.Email)
}

func NewDuplicateEmail(email string) error {
	return &ErrDuplicateEmail{Email: email}
}

// ErrValidation signals that a request draft is missing required fields or
// carries values outside the allowed set.
type ErrValidation struct {
	Fields []string
}

func (e *ErrValidation) Error() string {
	return "missing or invalid required fields: " + strings.Join(e.Fields, ", ")
}

func NewValidation(fields []string) error {
	return &ErrValidation{Fields: fields}
}

// IsNotFound reports whether err is a customer not-found error.
func IsNotFound(err error) bool {
	var e *ErrCustomerNotFound
	return errors.As(err, &e)
}

// IsConflict reports whether err is a duplicate-email conflict.
func IsConflict(err error) bool {
	var e *ErrDuplicateEmail
	return errors.As(err, &e)
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var e *ErrValidation
	return errors.As(err, &e)
}
