package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorKind discriminates the failure shapes the remote API produces.
type ErrorKind int

const (
	// KindGeneral is a single human-readable message (transport errors,
	// unexpected statuses, DRF "detail" responses).
	KindGeneral ErrorKind = iota
	// KindFieldErrors is a validation failure mapping field names to messages.
	KindFieldErrors
	// KindAuth is a 401/403: missing, invalid, or expired credentials.
	KindAuth
	// KindNotFound is a 404 for a named resource.
	KindNotFound
)

// FallbackBanner is shown when a validation failure carries only field-level
// messages, mirroring the original tool's wording.
const FallbackBanner = "Please correct the highlighted fields."

// APIError is the single error shape the client produces for every non-2xx
// response. Views branch on Kind instead of re-deriving the response shape.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Fields     map[string][]string // per-field messages when Kind is KindFieldErrors
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindFieldErrors:
		return fmt.Sprintf("validation failed (%d): %s", e.StatusCode, e.fieldSummary())
	default:
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
	}
}

// Banner returns the one-line summary a view should show, applying the
// precedence non_field_errors > detail > fallback.
func (e *APIError) Banner() string {
	return e.Message
}

// FieldMessages returns the messages attributed to a field, nil when none.
func (e *APIError) FieldMessages(field string) []string {
	if e.Fields == nil {
		return nil
	}
	return e.Fields[field]
}

func (e *APIError) fieldSummary() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// decodeAPIError folds a non-2xx response body into an APIError.
//
// The API (Django REST Framework) produces two shapes: {"detail": "..."} for
// general failures, and {field: [messages]} for validation failures, where
// the pseudo-field "non_field_errors" carries messages not tied to one input.
func decodeAPIError(statusCode int, body []byte) *APIError {
	kind := KindGeneral
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindAuth
	case http.StatusNotFound:
		kind = KindNotFound
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return &APIError{
			Kind:       kind,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("request failed with status %d", statusCode),
		}
	}

	// Banner precedence: non_field_errors > detail > fallback.
	if _, hasNFE := payload["non_field_errors"]; !hasNFE {
		if raw, ok := payload["detail"]; ok {
			var detail string
			if err := json.Unmarshal(raw, &detail); err == nil && detail != "" {
				return &APIError{Kind: kind, StatusCode: statusCode, Message: detail}
			}
		}
	}

	fields := map[string][]string{}
	for name, raw := range payload {
		fields[name] = decodeMessages(raw)
	}

	message := FallbackBanner
	if nfe := fields["non_field_errors"]; len(nfe) > 0 {
		message = strings.Join(nfe, " ")
	}

	return &APIError{
		Kind:       KindFieldErrors,
		StatusCode: statusCode,
		Message:    message,
		Fields:     fields,
	}
}

// decodeMessages accepts both a bare string and a list of strings, which DRF
// mixes depending on the validator.
func decodeMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}

	return []string{string(raw)}
}
