package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/aevon-lab/dimboard/internal/core/query"
)

// Provider resolves a normalized request into a tabular result.
//
// Implementations are stateless with respect to callers and safe for
// concurrent use. Every error returned is a *Failure; no partial results.
// Returned results are read-only: callers must not modify rows.
type Provider interface {
	Fetch(ctx context.Context, req query.Request) (*Result, error)
}

// Result is a homogeneous set of rows described by a manifest.
type Result struct {
	Rows     []query.Row
	Manifest query.Manifest

	// FiltersIgnored is set when the request-time filters excluded every row
	// and the provider answered with the unfiltered rows instead.
	FiltersIgnored bool
}

// Columns returns the result's column names in manifest order.
func (r *Result) Columns() []string {
	return r.Manifest.Names()
}

// Failure means the provider could not produce a result.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

func failure(err error, format string, args ...interface{}) *Failure {
	return &Failure{Message: fmt.Sprintf(format, args...), Err: err}
}

// AsFailure converts any error into a *Failure, keeping an existing one.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Message: "data provider failed", Err: err}
}

// EmptyFilterPolicy decides what a provider returns when request-time
// filters exclude every generated row.
type EmptyFilterPolicy string

const (
	FallbackToUnfiltered EmptyFilterPolicy = "fallbackToUnfiltered"
	ReturnEmpty          EmptyFilterPolicy = "returnEmpty"
)

// ParseEmptyFilterPolicy validates a policy name.
func ParseEmptyFilterPolicy(s string) (EmptyFilterPolicy, error) {
	switch p := EmptyFilterPolicy(s); p {
	case FallbackToUnfiltered, ReturnEmpty:
		return p, nil
	default:
		return "", fmt.Errorf("unknown empty filter policy %q (must be %s or %s)", s, FallbackToUnfiltered, ReturnEmpty)
	}
}

// Response is the wire envelope of a fetch.
type Response struct {
	Success        bool        `json:"success"`
	Data           []query.Row `json:"data"`
	Columns        []string    `json:"columns"`
	Message        string      `json:"message,omitempty"`
	FiltersIgnored bool        `json:"filtersIgnored,omitempty"`
}

// NewResponse wraps a fetch outcome in the wire envelope.
func NewResponse(res *Result, err error) Response {
	if err != nil {
		return Response{
			Success: false,
			Data:    []query.Row{},
			Columns: []string{},
			Message: AsFailure(err).Error(),
		}
	}
	rows := res.Rows
	if rows == nil {
		rows = []query.Row{}
	}
	return Response{
		Success:        true,
		Data:           rows,
		Columns:        res.Columns(),
		FiltersIgnored: res.FiltersIgnored,
	}
}

// requestFilter keeps rows whose cells strictly equal every filter value: a
// string filter only ever matches a string cell with the same content.
func requestFilter(rows []query.Row, filters map[string]string) []query.Row {
	out := make([]query.Row, 0, len(rows))
	for _, row := range rows {
		keep := true
		for col, want := range filters {
			got, ok := row[col].(string)
			if !ok || got != want {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

// applyPolicy runs the request-time filter and applies the empty-result policy.
func applyPolicy(rows []query.Row, filters map[string]string, policy EmptyFilterPolicy) ([]query.Row, bool) {
	if len(filters) == 0 {
		return rows, false
	}
	filtered := requestFilter(rows, filters)
	if len(filtered) > 0 || policy == ReturnEmpty {
		return filtered, false
	}
	return rows, true
}
