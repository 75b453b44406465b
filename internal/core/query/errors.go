package query

import (
	"fmt"
	"strings"
)

// ValidationError reports a result row that does not match its manifest.
type ValidationError struct {
	Row            int      `json:"row"`
	Message        string   `json:"message"`
	Column         string   `json:"column,omitempty"`
	ExpectedKind   Kind     `json:"expected_kind,omitempty"`
	ActualType     string   `json:"actual_type,omitempty"`
	UnknownColumns []string `json:"unknown_columns,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.UnknownColumns) > 0 {
		return fmt.Sprintf("row %d: unknown column(s) %v", e.Row, e.UnknownColumns)
	}
	if e.Column != "" {
		return fmt.Sprintf("row %d: column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// MultiValidationError aggregates row validation failures.
type MultiValidationError struct {
	Errors []*ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// NewMissingColumnError creates an error for an absent manifest column.
func NewMissingColumnError(row int, column string) *ValidationError {
	return &ValidationError{
		Row:     row,
		Message: "column is missing",
		Column:  column,
	}
}

// NewKindMismatchError creates an error for a value of the wrong kind.
func NewKindMismatchError(row int, column string, expected Kind, actual string) *ValidationError {
	return &ValidationError{
		Row:          row,
		Message:      fmt.Sprintf("expected %s, got %s", expected, actual),
		Column:       column,
		ExpectedKind: expected,
		ActualType:   actual,
	}
}

// NewUnknownColumnsError creates an error for columns outside the manifest.
func NewUnknownColumnsError(row int, columns []string) *ValidationError {
	return &ValidationError{
		Row:            row,
		Message:        fmt.Sprintf("unknown column(s) not allowed: %v", columns),
		UnknownColumns: columns,
	}
}
