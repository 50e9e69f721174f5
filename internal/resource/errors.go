package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when the backend has no record with the requested id.
var ErrNotFound = errors.New("record not found")

// ValidationError is the backend rejecting a draft (HTTP 422).
type ValidationError struct {
	// Fields maps a field name to its messages.
	Fields map[string][]string
	// Messages holds errors not tied to a field.
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.All(), "; ")
}

// All flattens the error into display lines. Field messages come first,
// ordered by field name, prefixed with the field.
func (e *ValidationError) All() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var out []string
	for _, f := range fields {
		for _, msg := range e.Fields[f] {
			out = append(out, f+": "+msg)
		}
	}
	return append(out, e.Messages...)
}

// UnmarshalJSON accepts {"errors": {...}} keyed by field as well as a plain
// {"errors": [...]} list.
func (e *ValidationError) UnmarshalJSON(data []byte) error {
	var body struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	raw := bytes.TrimSpace(body.Errors)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("validation payload has no errors")
	}

	switch raw[0] {
	case '{':
		fields := map[string][]string{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return fmt.Errorf("invalid field errors: %w", err)
		}
		e.Fields = fields
	case '[':
		var messages []string
		if err := json.Unmarshal(raw, &messages); err != nil {
			return fmt.Errorf("invalid error list: %w", err)
		}
		e.Messages = messages
	default:
		var message string
		if err := json.Unmarshal(raw, &message); err != nil {
			return fmt.Errorf("invalid error payload: %w", err)
		}
		e.Messages = []string{message}
	}
	return nil
}

// CommunicationError covers every other failure: network errors, 5xx,
// unexpected statuses and malformed bodies.
type CommunicationError struct {
	Err        error
	Method     string
	Path       string
	StatusCode int
}

func (e *CommunicationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *CommunicationError) Unwrap() error {
	return e.Err
}
