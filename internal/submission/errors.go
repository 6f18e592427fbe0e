package submission

import (
	"errors"
	"fmt"
	"sort"

	"github.com/virajo/backoffice/internal/intake"
	"github.com/virajo/backoffice/internal/store"
)

// Code classifies why a submission was rejected.
type Code string

const (
	CodeValidation      Code = "validation_error"
	CodeMissingFile     Code = "missing_file"
	CodeUnsupportedType Code = "unsupported_file_type"
	CodeTooLarge        Code = "file_too_large"
	CodeInternal        Code = "internal_error"
)

// Error is returned by Workflow.Submit for every rejected submission.
type Error struct {
	Code    Code
	Message string
	// Fields holds per-field messages for validation failures.
	Fields map[string]string
	// Missing reports, for every required field of the kind, whether it was
	// absent. Set only when required fields are missing.
	Missing map[string]bool
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Internal reports whether the rejection is a server-side failure.
func (e *Error) Internal() bool { return e.Code == CodeInternal }

// Messages returns the field messages sorted by field name.
func (e *Error) Messages() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.Fields[k])
	}
	return out
}

func intakeError(err error) *Error {
	switch {
	case errors.Is(err, intake.ErrUnsupportedType):
		return &Error{Code: CodeUnsupportedType, Message: intake.ErrUnsupportedType.Error(), Err: err}
	case errors.Is(err, intake.ErrTooLarge):
		return &Error{Code: CodeTooLarge, Message: intake.ErrTooLarge.Error(), Err: err}
	}
	return &Error{Code: CodeInternal, Message: "Failed to store the uploaded file", Err: err}
}

func persistError(err error) *Error {
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		return &Error{Code: CodeValidation, Message: "Validation Error", Fields: verr.Fields, Err: err}
	}
	return &Error{Code: CodeInternal, Message: "Failed to save submission", Err: err}
}
