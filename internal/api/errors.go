package api

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError wraps a failure to complete the HTTP exchange (DNS,
// connection refused, timeouts configured on the transport).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError indicates the response body could not be read or was not the
// expected JSON.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unexpected API response format (status %d, JSON decode failed): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// APIError is an error payload returned by the API, converted to a Go error
// by Response.Err and ListResponse.Err.
type APIError struct {
	Type             string
	Code             string
	Detail           string
	DocumentationURL string
	Fields           []FieldError
	RequestID        string
}

func (e *APIError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "API error (%s", e.Code)
	if e.Type != "" {
		_, _ = fmt.Fprintf(&b, ", %s", e.Type)
	}
	b.WriteString(")")
	if e.Detail != "" {
		_, _ = fmt.Fprintf(&b, ": %s", e.Detail)
	}
	for _, f := range e.Fields {
		_, _ = fmt.Fprintf(&b, "\n  %s: %s", f.Field, f.Message)
	}
	return b.String()
}

func newAPIError(body *ErrorBody, meta Meta) error {
	if body == nil {
		return nil
	}
	return &APIError{
		Type:             body.Type,
		Code:             body.Code,
		Detail:           body.Detail,
		DocumentationURL: body.DocumentationURL,
		Fields:           body.Errors,
		RequestID:        meta.RequestID,
	}
}

// IsTransportError checks if the error is a transport failure.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsDecodeError checks if the error is a response decode failure.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error is an API not_found error.
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == "not_found" || strings.HasSuffix(apiErr.Code, "_not_found")
	}
	return false
}
