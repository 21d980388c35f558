package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewValidationError(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest)
}

// NewMissingToken covers requests without an Authorization header.
func NewMissingToken() error {
	return NewDomainError("MISSING_TOKEN", "Access denied. No token provided.", http.StatusUnauthorized)
}

// NewMalformedToken covers headers that are not in bearer format.
func NewMalformedToken() error {
	return NewDomainError("MALFORMED_TOKEN", "Access denied. Invalid token format.", http.StatusUnauthorized)
}

// NewTokenExpired covers tokens past their expiry.
func NewTokenExpired() error {
	return NewDomainError("TOKEN_EXPIRED", "Token expired. Please log in again.", http.StatusUnauthorized)
}

// NewTokenInvalid covers tokens whose signature or claims do not verify.
func NewTokenInvalid() error {
	return NewDomainError("TOKEN_INVALID", "Invalid token. Please log in again.", http.StatusUnauthorized)
}

// NewInvalidCredentials is deliberately uniform across unknown-user,
// wrong-role and wrong-password failures to avoid account enumeration.
func NewInvalidCredentials() error {
	return NewDomainError("INVALID_CREDENTIALS", "Invalid credentials", http.StatusUnauthorized)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden)
}

func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewInvalidState covers operations rejected by the issue lifecycle.
func NewInvalidState(message string) error {
	return NewDomainError("INVALID_STATE", message, http.StatusBadRequest)
}

// NewConfigError covers fatal misconfiguration such as a missing signing secret.
func NewConfigError(message string) error {
	return NewDomainError("CONFIG_ERROR", message, http.StatusInternalServerError)
}

// NewStorageError wraps persistence failures.
func NewStorageError(err error) error {
	return &DomainError{
		Code:       "STORAGE_ERROR",
		Message:    "storage failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
