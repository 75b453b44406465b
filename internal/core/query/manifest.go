package query

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aevon-lab/dimboard/internal/core/catalog"
)

// Row is one result record: column name to scalar (number or string).
type Row map[string]interface{}

// Kind is the value kind of a result column.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
)

// Column describes one result column.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

var (
	colYear         = Column{Name: "Year", Kind: KindNumeric}
	colQuarter      = Column{Name: "Quarter", Kind: KindText}
	colMonth        = Column{Name: "Month", Kind: KindText}
	colCustomerType = Column{Name: "CustomerType", Kind: KindText}
	colCityKey      = Column{Name: "CityKey", Kind: KindText}
	colCustomerName = Column{Name: "CustomerName", Kind: KindText}
	colStoreCode    = Column{Name: "StoreCode", Kind: KindText}
	colSize         = Column{Name: "Size", Kind: KindText}
	colWeightRange  = Column{Name: "WeightRange", Kind: KindText}
	colProductCode  = Column{Name: "ProductCode", Kind: KindText}
	colState        = Column{Name: "State", Kind: KindText}
	colCity         = Column{Name: "City", Kind: KindText}
)

// columnRules maps a non-zero level id to the concrete columns it produces.
// Customer columns depend on the domain; the other dimensions do not.
var columnRules = map[catalog.Dimension]map[int][]Column{
	catalog.DimTime: {
		1: {colYear},
		2: {colQuarter},
		3: {colMonth},
	},
	catalog.DimItem: {
		1: {colSize},
		2: {colWeightRange},
		3: {colProductCode},
		4: {colSize, colWeightRange},
	},
	catalog.DimGeography: {
		1: {colState},
		2: {colState, colCity},
	},
}

var customerColumnRules = map[catalog.Domain]map[int][]Column{
	catalog.DomainSales: {
		1: {colCustomerType},
		2: {colCityKey},
		3: {colCustomerName},
	},
	catalog.DomainInventory: {
		1: {colStoreCode},
	},
}

// ColumnsFor returns the columns produced by one dimension at a level id.
// Id 0 produces no columns.
func ColumnsFor(dim catalog.Dimension, domain catalog.Domain, id int) ([]Column, error) {
	if id == 0 {
		return nil, nil
	}
	rules := columnRules[dim]
	if dim == catalog.DimCustomer {
		rules = customerColumnRules[domain]
	}
	cols, ok := rules[id]
	if !ok {
		return nil, catalog.UnknownLevelID(dim, domain, id)
	}
	return cols, nil
}

// Manifest is the ordered column schema of a result: dimension columns in
// time, customer, item, geography order followed by the value column.
type Manifest struct {
	Columns    []Column `json:"columns"`
	ValueField string   `json:"valueField"`
}

// ManifestFor computes the result schema a request must produce.
func ManifestFor(req Request) (Manifest, error) {
	m := Manifest{ValueField: req.DataType.ValueField()}
	seen := make(map[string]struct{})
	for _, dim := range catalog.Dimensions {
		cols, err := ColumnsFor(dim, req.DataType, req.LevelID(dim))
		if err != nil {
			return Manifest{}, err
		}
		for _, c := range cols {
			if _, dup := seen[c.Name]; dup {
				continue
			}
			seen[c.Name] = struct{}{}
			m.Columns = append(m.Columns, c)
		}
	}
	m.Columns = append(m.Columns, Column{Name: m.ValueField, Kind: KindNumeric})
	return m, nil
}

// Names returns the column names in order.
func (m Manifest) Names() []string {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the manifest contains a column.
func (m Manifest) Has(name string) bool {
	for _, c := range m.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// DimensionColumns returns every column except the value column.
func (m Manifest) DimensionColumns() []Column {
	out := make([]Column, 0, len(m.Columns))
	for _, c := range m.Columns {
		if c.Name != m.ValueField {
			out = append(out, c)
		}
	}
	return out
}

// ValidateRow checks that a row has exactly the manifest's columns, each with
// a value of the right kind.
func (m Manifest) ValidateRow(index int, row Row) error {
	var errs []*ValidationError
	for _, c := range m.Columns {
		v, ok := row[c.Name]
		if !ok {
			errs = append(errs, NewMissingColumnError(index, c.Name))
			continue
		}
		if actual, ok := kindOf(v); !ok || actual != c.Kind {
			errs = append(errs, NewKindMismatchError(index, c.Name, c.Kind, fmt.Sprintf("%T", v)))
		}
	}

	var unknown []string
	for name := range row {
		if !m.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		errs = append(errs, NewUnknownColumnsError(index, unknown))
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &MultiValidationError{Errors: errs}
	}
}

// ValidateRows validates every row, collecting all failures.
func (m Manifest) ValidateRows(rows []Row) error {
	var errs []*ValidationError
	for i, row := range rows {
		switch err := m.ValidateRow(i, row).(type) {
		case nil:
		case *ValidationError:
			errs = append(errs, err)
		case *MultiValidationError:
			errs = append(errs, err.Errors...)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &MultiValidationError{Errors: errs}
}

func kindOf(v interface{}) (Kind, bool) {
	switch v.(type) {
	case string:
		return KindText, true
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return KindNumeric, true
	default:
		return "", false
	}
}
