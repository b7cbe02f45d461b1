package librarysdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ============================================================================
// Sentinels
// ============================================================================

var (
	// Status classes, matched by *APIError through errors.Is.
	ErrBadRequest   = errors.New("librarysdk: bad request")
	ErrUnauthorized = errors.New("librarysdk: unauthorized")
	ErrForbidden    = errors.New("librarysdk: forbidden")
	ErrNotFound     = errors.New("librarysdk: not found")
	ErrConflict     = errors.New("librarysdk: conflict")
	ErrServer       = errors.New("librarysdk: server error")

	// ErrSessionExpired is matched by *SessionExpiredError. The stored session
	// has been cleared by the time a caller sees it.
	ErrSessionExpired = errors.New("librarysdk: session expired")

	// ErrNetwork is matched by *NetworkError.
	ErrNetwork = errors.New("librarysdk: network error")

	// ErrNotAuthenticated is returned for operations that need a stored
	// access token when there is none.
	ErrNotAuthenticated = errors.New("librarysdk: not authenticated")

	// ErrNoRefreshToken means a 401 arrived but there is nothing to refresh with.
	ErrNoRefreshToken = errors.New("librarysdk: no refresh token stored")

	// ErrSessionCleared means the session was logged out while a refreshed
	// request was waiting to be resent.
	ErrSessionCleared = errors.New("librarysdk: session cleared during refresh")
)

// ============================================================================
// APIError
// ============================================================================

// APIError is any non-2xx response from the library service.
type APIError struct {
	StatusCode int

	// Detail is the server's "detail" (or first "non_field_errors") message.
	Detail string

	// Fields holds per-field validation messages, keyed by JSON field name.
	Fields map[string][]string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" && len(e.Fields) > 0 {
		msg = e.fieldSummary()
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("library api: HTTP %d: %s", e.StatusCode, msg)
}

// Is maps the status code onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// Message returns the server's detail, else the field messages, else fallback.
func (e *APIError) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	if s := e.fieldSummary(); s != "" {
		return s
	}
	return fallback
}

func (e *APIError) fieldSummary() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
	}
	return strings.Join(parts, "; ")
}

// ============================================================================
// Client-side errors
// ============================================================================

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// SessionExpiredError reports that the refresh-and-retry path failed and the
// stored session was cleared. Cause is the refresh failure; Original is the
// 401 that started it.
type SessionExpiredError struct {
	Cause    error
	Original error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %v", e.Cause)
}

func (e *SessionExpiredError) Unwrap() []error {
	errs := []error{ErrSessionExpired}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	if e.Original != nil {
		errs = append(errs, e.Original)
	}
	return errs
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// UserMessage turns err into something a screen can show. Server-provided
// details win; otherwise fallback is used.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	if errors.Is(err, ErrSessionExpired) {
		return "Your session has expired. Please log in again."
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message(fallback)
	}
	if errors.Is(err, ErrNetwork) {
		return "Could not reach the library service."
	}
	return fallback
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx body into an *APIError. The service
// answers with {"detail": "..."} or with field maps whose values are a
// string or a list of strings. Returns nil for 2xx.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for name, value := range raw {
		msgs := decodeMessages(value)
		if len(msgs) == 0 {
			continue
		}

		switch name {
		case "detail":
			apiErr.Detail = msgs[0]
		case "error", "message":
			if apiErr.Detail == "" {
				apiErr.Detail = msgs[0]
			}
		case "non_field_errors":
			if apiErr.Detail == "" {
				apiErr.Detail = strings.Join(msgs, " ")
			}
		default:
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[name] = msgs
		}
	}

	return apiErr
}

func decodeMessages(value json.RawMessage) []string {
	var one string
	if err := json.Unmarshal(value, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}

	var many []string
	if err := json.Unmarshal(value, &many); err == nil {
		return many
	}
	return nil
}
