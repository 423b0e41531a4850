package errs

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind is the error category surfaced to API clients as extensions.code
type Kind string

const (
	KindValidation             Kind = "VALIDATION_ERROR"
	KindAuthenticationRequired Kind = "AUTHENTICATION_REQUIRED"
	KindAuthenticationFailed   Kind = "AUTHENTICATION_FAILED"
	KindInvalidCredentials     Kind = "INVALID_CREDENTIALS"
	KindPersistence            Kind = "PERSISTENCE_FAILURE"
	KindInternal               Kind = "INTERNAL_SERVER_ERROR"
)

// Error is a user-facing error. Argument and Value identify the offending
// input, Details carries per-field diagnostics, Err is the underlying cause.
type Error struct {
	Kind     Kind
	Message  string
	Argument string
	Value    any
	Details  map[string]string
	Err      error
}

// Error returns only the client-facing message; the cause stays reachable
// through Unwrap and Cause so it never leaks into a response.
func (e *Error) Error() string {
	return e.Message
}

// Cause renders message and cause together, for logs.
func (e *Error) Cause() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, errs.ErrAuthRequired) works
// for every AuthenticationRequired error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Extensions is read by graphql-go and copied into the response error.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": string(e.Kind),
	}
	if e.Argument != "" {
		ext["argument"] = e.Argument
	}
	if e.Value != nil {
		ext["value"] = e.Value
	}
	if len(e.Details) > 0 {
		ext["details"] = e.Details
	}
	return ext
}

// Kind markers for errors.Is
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrAuthRequired       = &Error{Kind: KindAuthenticationRequired}
	ErrAuthFailed         = &Error{Kind: KindAuthenticationFailed}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrPersistence        = &Error{Kind: KindPersistence}
	ErrInternal           = &Error{Kind: KindInternal}
)

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Validation(argument string, value any, message string, details map[string]string) *Error {
	return &Error{
		Kind:     KindValidation,
		Message:  message,
		Argument: argument,
		Value:    value,
		Details:  details,
	}
}

func AuthenticationRequired() *Error {
	return &Error{
		Kind:    KindAuthenticationRequired,
		Message: "not authenticated",
	}
}

func AuthenticationFailed(cause error) *Error {
	return &Error{
		Kind:    KindAuthenticationFailed,
		Message: "invalid bearer token",
		Err:     cause,
	}
}

// InvalidCredentials never says which check failed.
func InvalidCredentials() *Error {
	return &Error{
		Kind:    KindInvalidCredentials,
		Message: "wrong credentials",
	}
}

func Persistence(message, argument string, value any, cause error) *Error {
	return &Error{
		Kind:     KindPersistence,
		Message:  message,
		Argument: argument,
		Value:    value,
		Err:      cause,
	}
}

func Internal(message string, cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: message,
		Err:     cause,
	}
}

// FromValidation converts an ozzo-validation result into a ValidationError.
// Argument and Value name the first failing field in sorted order; Details
// lists every failing field.
func FromValidation(err error, values map[string]any) *Error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return Validation("", nil, err.Error(), nil)
	}

	fields := make([]string, 0, len(fieldErrs))
	details := make(map[string]string, len(fieldErrs))
	for field, fe := range fieldErrs {
		if fe == nil {
			continue
		}
		fields = append(fields, field)
		details[field] = fe.Error()
	}
	if len(fields) == 0 {
		return Validation("", nil, err.Error(), nil)
	}
	sort.Strings(fields)

	first := fields[0]
	return Validation(first, values[first], details[first], details)
}
