// Package apperrors defines the typed errors shared across the service.
// Handlers map them to HTTP statuses at the boundary; everything below the
// boundary returns them as plain error values.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a missing or invalid required field. The field name
// is part of the contract so the caller can highlight the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("campo obrigatório não preenchido: %s", e.Field)
}

// NewValidation creates a ValidationError for the given field
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a lookup by id or code that found nothing
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NewNotFound creates a NotFoundError with the given message
func NewNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// SchemaError reports a reference workbook missing its expected columns
type SchemaError struct {
	File    string
	Columns []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("'%s'", c)
	}
	return fmt.Sprintf("Colunas %s não encontradas no arquivo %s", strings.Join(quoted, " e "), e.File)
}

// PersistenceError reports a storage-layer failure during a write
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistence wraps a storage failure with the operation that caused it
func NewPersistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
