package filter

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aevon-lab/dimboard/internal/core/query"
)

// VisibleRows returns the rows matching every non-empty (column, value) pair
// in filters. Matching compares the stringified cell with the value exactly,
// case-sensitively, numeric columns included. Unmatched filters yield an empty
// slice, never an error. The input is not modified.
func VisibleRows(rows []query.Row, filters map[string]string) []query.Row {
	active := make(map[string]string, len(filters))
	for col, val := range filters {
		if val != "" {
			active[col] = val
		}
	}

	out := make([]query.Row, 0, len(rows))
	for _, row := range rows {
		if matches(row, active) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row query.Row, filters map[string]string) bool {
	for col, want := range filters {
		if Stringify(row[col]) != want {
			return false
		}
	}
	return true
}

// Vocabulary returns the distinct stringified values of a column, sorted
// lexicographically.
func Vocabulary(rows []query.Row, column string) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		seen[Stringify(row[column])] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Vocabularies computes Vocabulary for each column.
func Vocabularies(rows []query.Row, columns []string) map[string][]string {
	out := make(map[string][]string, len(columns))
	for _, col := range columns {
		out[col] = Vocabulary(rows, col)
	}
	return out
}

// Stringify renders a cell the way it is shown and compared: absent or nil
// values become "", integral floats have no fraction digits.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return val.String()
		}
		if f, err := val.Float64(); err == nil {
			return formatFloat(f, 64)
		}
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// formatFloat uses the shortest round-trip digits, switching to exponent form
// below 1e-6 and from 1e21 upwards.
func formatFloat(f float64, bitSize int) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		out := strconv.FormatFloat(f, 'e', -1, bitSize)
		return strings.Replace(strings.Replace(out, "e-0", "e-", 1), "e+0", "e+", 1)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}
