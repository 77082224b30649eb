package payload

import "fmt"

// InvalidFieldError reports a missing, empty or malformed field.
type InvalidFieldError struct {
	Type   ContentType
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: field %q is required", e.Type, e.Field)
	}
	return fmt.Sprintf("%s: field %q %s", e.Type, e.Field, e.Reason)
}

func missing(t ContentType, field string) error {
	return &InvalidFieldError{Type: t, Field: field}
}

func invalid(t ContentType, field, reason string) error {
	return &InvalidFieldError{Type: t, Field: field, Reason: reason}
}
