package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidRecord is returned when an input record fails validation
	ErrInvalidRecord = errors.New("invalid record")

	// ErrNotFound is returned when a SKU is absent from both the active and draft scopes
	ErrNotFound = errors.New("product not found in active or draft scope")

	// ErrThrottled is returned when the remote platform asks the caller to back off
	ErrThrottled = errors.New("remote throttled the request")

	// ErrRemoteRejected is returned when a mutation comes back with user errors
	ErrRemoteRejected = errors.New("remote rejected the request")

	// ErrRemoteFailure is returned for any other remote-side failure
	ErrRemoteFailure = errors.New("remote request failed")

	// ErrTransport is returned when the request never got a usable response
	ErrTransport = errors.New("transport failure")

	// ErrInvalidConfig is returned for configuration discovered to be unusable before a run
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError describes a malformed record. The record is skipped, the run continues.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRecord
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a SKU that neither scope returned.
type NotFoundError struct {
	SKU string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sku %s not found in active or draft scope", e.SKU)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ThrottledError carries the remote's retry hint. A zero RetryAfter means no hint was given.
type ThrottledError struct {
	Operation  string
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s throttled, retry after %s", e.Operation, e.RetryAfter)
	}
	return fmt.Sprintf("%s throttled", e.Operation)
}

// Is implements errors.Is support
func (e *ThrottledError) Is(target error) bool {
	return target == ErrThrottled
}

// UserError is a field-level validation message returned by a mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// RemoteValidationError wraps the user errors of a rejected mutation.
type RemoteValidationError struct {
	Operation  string
	UserErrors []UserError
}

func (e *RemoteValidationError) Error() string {
	parts := make([]string, 0, len(e.UserErrors))
	for _, ue := range e.UserErrors {
		msg := strings.TrimSpace(ue.Message)
		if len(ue.Field) == 0 {
			parts = append(parts, msg)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), msg))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s rejected with user errors", e.Operation)
	}
	return fmt.Sprintf("%s rejected: %s", e.Operation, strings.Join(parts, "; "))
}

// Is implements errors.Is support
func (e *RemoteValidationError) Is(target error) bool {
	return target == ErrRemoteRejected
}

// RemoteError is any non-throttle failure reported by the remote side.
type RemoteError struct {
	Operation  string
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (status %d): %s", e.Operation, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Detail)
}

// Is implements errors.Is support
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteFailure
}

// TransportError is a network-level failure. It is never retried automatically.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport failure: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ConfigError is fatal and is raised before any record is processed.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
