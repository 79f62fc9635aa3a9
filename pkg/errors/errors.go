// Package errors provides the typed errors used across rostersync.
// Every error type supports errors.Is against a sentinel so callers can
// branch on the failure class without type assertions.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Sentinel errors for errors.Is checks.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingInput indicates that a required input table is absent
	ErrMissingInput = errors.New("missing input")

	// ErrUnitNotFound indicates that an identifier matched no organizational unit
	ErrUnitNotFound = errors.New("organizational unit not found")

	// ErrUnitAmbiguous indicates that an identifier matched several organizational units
	ErrUnitAmbiguous = errors.New("organizational unit ambiguous")

	// ErrMergeKeyCollision indicates a merged table holds two rows for one key
	ErrMergeKeyCollision = errors.New("merge key collision")

	// ErrUnauthorized indicates that the remote service rejected our credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable indicates that the remote service is temporarily unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// MissingInputError reports a required input table that is absent from the input directory.
type MissingInputError struct {
	File string
	Dir  string
}

// Error implements the error interface
func (e *MissingInputError) Error() string {
	return fmt.Sprintf("cannot find required file %s in directory %s", e.File, e.Dir)
}

// Is implements errors.Is support
func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// NewMissingInputError creates a new MissingInputError
func NewMissingInputError(file, dir string) *MissingInputError {
	return &MissingInputError{File: file, Dir: dir}
}

// ResolutionKind tells why an identifier could not be resolved to a single unit.
type ResolutionKind string

const (
	// ResolutionNone means no unit matched the identifier.
	ResolutionNone ResolutionKind = "none"
	// ResolutionMultiple means more than one unit matched the identifier.
	ResolutionMultiple ResolutionKind = "multiple"
)

// UnitResolutionError reports an identifier that resolved to zero or several
// organizational units. Candidates holds every matching row, all fields, in
// table order.
type UnitResolutionError struct {
	Identifier string
	Kind       ResolutionKind
	Candidates [][]string
}

// Error implements the error interface
func (e *UnitResolutionError) Error() string {
	if e.Kind == ResolutionMultiple {
		return fmt.Sprintf("organization unit name or code is ambiguous: %s (%d candidates)", e.Identifier, len(e.Candidates))
	}
	return fmt.Sprintf("cannot find organization unit with name, code, or id: %s", e.Identifier)
}

// Is implements errors.Is support
func (e *UnitResolutionError) Is(target error) bool {
	if e.Kind == ResolutionMultiple {
		return target == ErrUnitAmbiguous
	}
	return target == ErrUnitNotFound
}

// NewUnitNotFoundError creates a UnitResolutionError for an identifier with no match.
func NewUnitNotFoundError(identifier string) *UnitResolutionError {
	return &UnitResolutionError{Identifier: identifier, Kind: ResolutionNone}
}

// NewUnitAmbiguousError creates a UnitResolutionError for an identifier with several matches.
func NewUnitAmbiguousError(identifier string, candidates [][]string) *UnitResolutionError {
	return &UnitResolutionError{Identifier: identifier, Kind: ResolutionMultiple, Candidates: candidates}
}

// MergeKeyCollisionError reports a merged table that holds more than one row
// for a composite key. It signals a defect in the merge, never bad input.
type MergeKeyCollisionError struct {
	Dataset string
	Key     []string
	Count   int
}

// Error implements the error interface
func (e *MergeKeyCollisionError) Error() string {
	return fmt.Sprintf("merged %s table holds %d rows for key (%s)", e.Dataset, e.Count, strings.Join(e.Key, ","))
}

// Is implements errors.Is support
func (e *MergeKeyCollisionError) Is(target error) bool {
	return target == ErrMergeKeyCollision
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an unexpected response from the Brightspace APIs.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return target == ErrUnauthorized
	case e.StatusCode >= 500:
		return target == ErrUnavailable
	}
	return false
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// AuthenticationError represents a failed credential exchange.
type AuthenticationError struct {
	Service string
	Method  string // "refresh_token", "bearer"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error for %s (%s): %s", e.Service, e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// ParseError represents an error when decoding a data file
type ParseError struct {
	Format  string // "csv", "yaml", "json"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "extract"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "merge", "load", "download", "write"
	Resource  string // "dataset", "table", "config"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMissingInput checks if an error reports an absent input table
func IsMissingInput(err error) bool {
	return errors.Is(err, ErrMissingInput)
}

// IsUnitResolution checks if an error reports an unresolvable unit identifier
func IsUnitResolution(err error) bool {
	return errors.Is(err, ErrUnitNotFound) || errors.Is(err, ErrUnitAmbiguous)
}

// IsMergeKeyCollision checks if an error reports a broken merge invariant
func IsMergeKeyCollision(err error) bool {
	return errors.Is(err, ErrMergeKeyCollision)
}

// IsUnauthorized checks if an error reports rejected credentials
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// As is a convenience re-export of the standard library errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
