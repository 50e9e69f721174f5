// Package storage provides the data persistence layer of the reference backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/fintrack/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidEntry    = errors.New("invalid entry")
	// ErrUnknownCategory is returned when an entry references a missing category.
	ErrUnknownCategory = errors.New("category does not exist")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

// validateCategory validates a category before it is written.
func validateCategory(c *model.Category) error {
	if c == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	return nil
}

// validateEntry validates an entry before it is written.
func validateEntry(e *model.Entry) error {
	if e == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidEntry)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEntry, e.Type)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidEntry)
	}
	if e.CategoryID <= 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidEntry)
	}
	return nil
}
