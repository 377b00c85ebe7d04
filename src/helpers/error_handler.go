package helpers

import (
	"errors"
	"fmt"
	"sync"

	"seasonality-dashboard/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type DashboardError struct {
	Message string
	Cause   error
}

func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks
type ValidationError struct{ DashboardError }
type NetworkError struct{ DashboardError }
type ParseError struct{ DashboardError }
type MalformedPointError struct{ DashboardError }
type DatabaseError struct{ DashboardError }

// Error kinds carried by a failed fetch result.
const (
	KindValidation = "validation"
	KindNetwork    = "network"
	KindParse      = "parse"
	KindUnknown    = "unknown"
)

const IncompleteSelectionMessage = "incomplete selection: choose an asset and a year range"

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{DashboardError{Message: fmt.Sprintf(format, args...)}}
}

func NewNetworkError(message string, cause error) error {
	return &NetworkError{DashboardError{Message: message, Cause: cause}}
}

func NewParseError(message string, cause error) error {
	return &ParseError{DashboardError{Message: message, Cause: cause}}
}

func NewMalformedPointError(date string, cause error) error {
	return &MalformedPointError{DashboardError{Message: fmt.Sprintf("malformed point date %q", date), Cause: cause}}
}

func NewDatabaseError(message string, cause error) error {
	return &DatabaseError{DashboardError{Message: message, Cause: cause}}
}

// ErrIncompleteSelection is returned by submit without an asset or a range.
func ErrIncompleteSelection() error {
	return NewValidationError(IncompleteSelectionMessage)
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

func IsMalformedPointError(err error) bool {
	var target *MalformedPointError
	return errors.As(err, &target)
}

// Kind maps an error onto the error_kind reported in a failed fetch result.
func Kind(err error) string {
	switch {
	case IsValidationError(err):
		return KindValidation
	case IsNetworkError(err):
		return KindNetwork
	case IsParseError(err):
		return KindParse
	default:
		return KindUnknown
	}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger *logger.Logger

	mu         sync.Mutex
	errorCount int
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger(nil, "ErrorHandler")
	}
	return &ErrorHandler{Logger: log}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ErrorCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errorCount
}

func (e *ErrorHandler) ResetErrorCount() {
	e.mu.Lock()
	e.errorCount = 0
	e.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Handle logs err under context. Rejected input and skipped points go to
// debug; everything else is logged as an error and counted.
func (e *ErrorHandler) Handle(err error, context string) {
	switch {
	case err == nil:
		return
	case IsValidationError(err):
		e.Logger.Debug("Rejected %s: %v", context, err)
		return
	case IsMalformedPointError(err):
		e.Logger.Debug("Skipped point in %s: %v", context, err)
		return
	}

	e.mu.Lock()
	e.errorCount++
	e.mu.Unlock()
	e.Logger.Error("Error in %s: %v", context, err)
}
