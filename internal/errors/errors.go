// Package errors provides structured error types for gamelist loading and
// export. All errors carry a category, a code, a message and optionally the
// path of the file involved.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorCategory classifies errors by the operation that failed.
type ErrorCategory string

const (
	ErrCategoryLoad    ErrorCategory = "LOAD"
	ErrCategoryExport  ErrorCategory = "EXPORT"
	ErrCategoryConfig  ErrorCategory = "CONFIG"
	ErrCategoryJournal ErrorCategory = "JOURNAL"
	ErrCategoryEdit    ErrorCategory = "EDIT"
)

// Error codes shared by all categories.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeIsDirectory      = "IS_DIRECTORY"
	CodeParseError       = "PARSE_ERROR"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeIOError          = "IO_ERROR"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeDeclined         = "DECLINED"
)

// GamelistError is the structured error type used throughout the module.
type GamelistError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Path     string
	Cause    error
}

// Error returns a formatted error string.
func (e *GamelistError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *GamelistError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
// A target without category matches on code alone.
func (e *GamelistError) Is(target error) bool {
	var t *GamelistError
	if errors.As(target, &t) {
		if t.Category == "" {
			return e.Code == t.Code
		}
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new GamelistError.
func New(category ErrorCategory, code, message string) *GamelistError {
	return &GamelistError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// Wrap creates a new GamelistError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *GamelistError {
	return &GamelistError{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
}

// WithPath returns a copy of the error bound to path.
func (e *GamelistError) WithPath(path string) *GamelistError {
	cp := *e
	cp.Path = path
	return &cp
}

// Code-only sentinels for use with errors.Is regardless of category.
var (
	ErrNotFound         = &GamelistError{Code: CodeNotFound}
	ErrIsDirectory      = &GamelistError{Code: CodeIsDirectory}
	ErrParse            = &GamelistError{Code: CodeParseError}
	ErrPermissionDenied = &GamelistError{Code: CodePermissionDenied}
	ErrIO               = &GamelistError{Code: CodeIOError}
	ErrInvalidArgument  = &GamelistError{Code: CodeInvalidArgument}
	ErrDeclined         = &GamelistError{Code: CodeDeclined}
)

// FromOS classifies a filesystem error into a GamelistError of the given
// category. A nil err returns nil.
func FromOS(category ErrorCategory, path string, err error) error {
	if err == nil {
		return nil
	}
	var ge *GamelistError
	if errors.As(err, &ge) {
		return err
	}

	var code, message string
	switch {
	case errors.Is(err, fs.ErrNotExist):
		code, message = CodeNotFound, "could not find file"
	case errors.Is(err, syscall.EISDIR):
		code, message = CodeIsDirectory, "path is a directory"
	case errors.Is(err, fs.ErrPermission):
		code, message = CodePermissionDenied, "no permission to access"
	default:
		code, message = CodeIOError, "file cannot be accessed"
	}
	return &GamelistError{
		Category: category,
		Code:     code,
		Message:  message,
		Path:     path,
		Cause:    err,
	}
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a GamelistError.
func GetCategory(err error) ErrorCategory {
	var ge *GamelistError
	if errors.As(err, &ge) {
		return ge.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a GamelistError.
func GetCode(err error) string {
	var ge *GamelistError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// Convenience constructors for common errors.

func NewLoadError(code, message, path string, cause error) *GamelistError {
	return &GamelistError{Category: ErrCategoryLoad, Code: code, Message: message, Path: path, Cause: cause}
}

func NewExportError(code, message, path string, cause error) *GamelistError {
	return &GamelistError{Category: ErrCategoryExport, Code: code, Message: message, Path: path, Cause: cause}
}

func NewInvalidArgument(category ErrorCategory, message string) *GamelistError {
	return New(category, CodeInvalidArgument, message)
}

func NewConfigError(message string, cause error) *GamelistError {
	return Wrap(ErrCategoryConfig, CodeInvalidArgument, message, cause)
}

func NewJournalError(message string, cause error) *GamelistError {
	return Wrap(ErrCategoryJournal, CodeIOError, message, cause)
}
