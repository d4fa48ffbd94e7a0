// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDataFormat       = errors.New("data format error")
	ErrPairAlignment    = errors.New("call/put pair alignment failed")
	ErrInputValidation  = errors.New("input validation failed")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrTickerNotFound   = errors.New("ticker not found")
	ErrConnectionFailed = errors.New("connection failed")
	ErrDatabaseError    = errors.New("database error")
	ErrStoreDisabled    = errors.New("run history is disabled")
)

// DataFormatError is returned when a contract identifier cannot be decoded.
type DataFormatError struct {
	Symbol string
	Field  string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data format error [%s] %s: %s: %v", e.Symbol, e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("data format error [%s] %s: %s", e.Symbol, e.Field, e.Reason)
}

func (e *DataFormatError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDataFormat
}

// Is lets errors.Is match ErrDataFormat even when a cause is wrapped.
func (e *DataFormatError) Is(target error) bool {
	return target == ErrDataFormat
}

// NewDataFormatError creates a new DataFormatError.
func NewDataFormatError(symbol, field, reason string, err error) *DataFormatError {
	return &DataFormatError{
		Symbol: symbol,
		Field:  field,
		Reason: reason,
		Err:    err,
	}
}

// PairAlignmentError is returned when call and put legs cannot be paired.
// Position is -1 when the failure is not tied to a single row.
type PairAlignmentError struct {
	Position int
	Call     string
	Put      string
	Reason   string
}

func (e *PairAlignmentError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("pair alignment error: %s", e.Reason)
	}
	return fmt.Sprintf("pair alignment error at position %d (call %s, put %s): %s", e.Position, e.Call, e.Put, e.Reason)
}

func (e *PairAlignmentError) Unwrap() error {
	return ErrPairAlignment
}

// NewPairAlignmentError creates a new PairAlignmentError.
func NewPairAlignmentError(position int, call, put, reason string) *PairAlignmentError {
	return &PairAlignmentError{
		Position: position,
		Call:     call,
		Put:      put,
		Reason:   reason,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// DataError represents a failure retrieving or decoding market data.
type DataError struct {
	Source  string
	Ticker  string
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.Source, e.Ticker, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.Source, e.Ticker, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(source, ticker, message string, err error) *DataError {
	return &DataError{
		Source:  source,
		Ticker:  ticker,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
