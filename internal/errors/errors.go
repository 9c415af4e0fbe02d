package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Lexical and grammar failures. The messages are fixed so callers can match on them.
var (
	ErrUnclosedString     = errors.New("Unclosed string.")
	ErrIncompleteComment  = errors.New("Incomplete multi-line comment.")
	ErrUnclosedIdentifier = errors.New("Unclosed identifier.")
	ErrIncompleteInsert   = errors.New("Incomplete insert statement.")
	ErrIncompleteValues   = errors.New("Unable to parse values.")
	ErrUnexpectedEOF      = errors.New("Unexpected end of file.")
	ErrInvalidSQL         = errors.New("Invalid sql file.")
)

// SyntaxError represents a fatal lexical or grammar failure in the input
type SyntaxError struct {
	Offset int64 // Byte offset where the failure was detected
	Err    error // One of the Err* sentinels above
}

func (e *SyntaxError) Error() string {
	return e.Err.Error()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// NewSyntaxError creates a new SyntaxError
func NewSyntaxError(offset int64, err error) *SyntaxError {
	return &SyntaxError{
		Offset: offset,
		Err:    err,
	}
}

// ReadError represents a failure of the underlying byte source
type ReadError struct {
	Offset int64
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read input at byte %d: %v", e.Offset, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReadError creates a new ReadError
func NewReadError(offset int64, err error) *ReadError {
	return &ReadError{
		Offset: offset,
		Err:    err,
	}
}

// ConfigError represents invalid configuration
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// VerifyError represents a fragment that is not independently valid SQL
type VerifyError struct {
	File    string
	Message string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// NewVerifyError creates a new VerifyError
func NewVerifyError(file, message string) *VerifyError {
	return &VerifyError{
		File:    file,
		Message: message,
	}
}

// LoadError represents a fragment rejected by PostgreSQL
type LoadError struct {
	File     string
	SQLError *pgconn.PgError // PostgreSQL error details
	Err      error
}

func (e *LoadError) Error() string {
	if e.SQLError != nil {
		return fmt.Sprintf("loading %s failed: [%s] %s", e.File, e.SQLError.Code, e.SQLError.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("loading %s failed: %v", e.File, e.Err)
	}
	return fmt.Sprintf("loading %s failed", e.File)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError, extracting PostgreSQL details when present
func NewLoadError(file string, err error) *LoadError {
	le := &LoadError{
		File: file,
		Err:  err,
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		le.SQLError = pgErr
	}
	return le
}

// ConnectionError represents a failure to reach PostgreSQL
type ConnectionError struct {
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s\nSuggestion: %s", e.Message, e.Suggestion)
	}
	return e.Message
}
