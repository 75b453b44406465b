package dashboard

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/aevon-lab/dimboard/internal/core/catalog"
	"github.com/aevon-lab/dimboard/internal/core/filter"
	"github.com/aevon-lab/dimboard/internal/core/query"
	"github.com/aevon-lab/dimboard/internal/provider"
)

const (
	AlignLeft  = "left"
	AlignRight = "right"

	// EmptyMessage is shown when there is no result to display.
	EmptyMessage = "No Data to Display"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Header describes one displayed column.
type Header struct {
	Column string     `json:"column"`
	Title  string     `json:"title"`
	Kind   query.Kind `json:"kind"`
	Align  string     `json:"align"`
}

// Cell is a raw value and its display text.
type Cell struct {
	Value interface{} `json:"value"`
	Text  string      `json:"text"`
}

// Table is the presentation of a result through the column filters.
type Table struct {
	Headers []Header            `json:"headers"`
	Options map[string][]string `json:"options"`
	Rows    [][]Cell            `json:"rows"`
	Filters map[string]string   `json:"filters"`

	Visible int    `json:"visible"`
	Total   int    `json:"total"`
	Summary string `json:"summary,omitempty"`

	ValueTotal     decimal.Decimal `json:"valueTotal"`
	ValueTotalText string          `json:"valueTotalText"`

	FiltersIgnored bool   `json:"filtersIgnored,omitempty"`
	Empty          bool   `json:"empty"`
	Message        string `json:"message,omitempty"`
}

// BuildTable applies the column filters to res and formats what remains.
// Filter options are derived from the full result, not the visible rows.
func BuildTable(res *provider.Result, domain catalog.Domain, filters map[string]string) Table {
	t := Table{
		Headers: []Header{},
		Options: map[string][]string{},
		Rows:    [][]Cell{},
		Filters: filters,
	}
	if t.Filters == nil {
		t.Filters = map[string]string{}
	}
	if res == nil || len(res.Rows) == 0 {
		t.Empty = true
		t.Message = EmptyMessage
		t.ValueTotalText = "0"
		return t
	}

	valueField := res.Manifest.ValueField
	columns := res.Columns()
	for _, c := range res.Manifest.Columns {
		h := Header{Column: c.Name, Title: c.Name, Kind: c.Kind, Align: AlignLeft}
		if c.Name == valueField {
			h.Title = domain.ValueTitle()
			h.Align = AlignRight
		}
		t.Headers = append(t.Headers, h)
	}
	t.Options = filter.Vocabularies(res.Rows, columns)

	visible := filter.VisibleRows(res.Rows, filters)
	total := decimal.Zero
	for _, row := range visible {
		cells := make([]Cell, len(columns))
		for i, col := range columns {
			v := row[col]
			text := filter.Stringify(v)
			if col == valueField {
				if d, ok := toDecimal(v); ok {
					total = total.Add(d)
					text = FormatNumber(v)
				}
			}
			cells[i] = Cell{Value: v, Text: text}
		}
		t.Rows = append(t.Rows, cells)
	}

	t.Visible = len(visible)
	t.Total = len(res.Rows)
	t.Summary = fmt.Sprintf("Showing %d of %d record(s)", t.Visible, t.Total)
	t.ValueTotal = total
	t.ValueTotalText = FormatDecimal(total)
	t.FiltersIgnored = res.FiltersIgnored
	return t
}

// FormatNumber renders a numeric cell with en-US digit grouping and at most
// three fraction digits. Non-numeric values are stringified unchanged.
func FormatNumber(v interface{}) string {
	switch n := v.(type) {
	case int, int32, int64, uint32, uint64, float32, float64:
		return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return printer.Sprint(number.Decimal(i))
		}
		if f, err := n.Float64(); err == nil {
			return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
		}
	}
	return filter.Stringify(v)
}

// FormatDecimal renders an exact total the same way as a value cell.
func FormatDecimal(d decimal.Decimal) string {
	if d.IsInteger() && d.Abs().LessThan(decimal.New(1, 18)) {
		return FormatNumber(d.IntPart())
	}
	return FormatNumber(d.InexactFloat64())
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
