package api

import (
	"encoding/json"
	"fmt"
)

// NetworkError wraps a transport failure: no response was received at all.
// Timeouts classify here, never as an authentication problem.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network unavailable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is a 401. It is handled globally by the session's expiry hook;
// callers normally just stop.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "authentication rejected"
	}
	return "authentication rejected: " + e.Detail
}

// ValidationError is any 4xx other than 401. Detail carries the server's
// message for page-local display; there is no global side effect.
type ValidationError struct {
	Status int
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request rejected (%d)", e.Status)
	}
	return e.Detail
}

// ServerError is a 5xx response.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server fault (%d)", e.Status)
}

// detailOf extracts the server's {"detail": ...} message, empty when the
// body is not in that shape.
func detailOf(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
