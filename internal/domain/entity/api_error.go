package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a backend call failed.
type ErrorKind string

const (
	ErrorKindTransport    ErrorKind = "transport"
	ErrorKindStatus       ErrorKind = "status"
	ErrorKindUnauthorized ErrorKind = "unauthorized"
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindDecode       ErrorKind = "decode"
)

// APIError is the failure half of every API client operation.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ErrorKindOf returns the kind of an APIError anywhere in err's chain, or "" if none.
func ErrorKindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// ErrorMessage returns the backend message of an APIError, falling back to err.Error().
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
