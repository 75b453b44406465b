package query

import (
	"encoding/json"
	"testing"

	"github.com/aevon-lab/dimboard/internal/core/catalog"
	"github.com/aevon-lab/dimboard/internal/core/selection"
	"github.com/stretchr/testify/require"
)

// staticSelection lets tests bypass selection.State invariants.
type staticSelection struct {
	levels  map[catalog.Dimension]string
	filters map[string]string
}

func (s staticSelection) LevelKey(dim catalog.Dimension) string {
	if l, ok := s.levels[dim]; ok {
		return l
	}
	return catalog.AggregateLevel
}

func (s staticSelection) Filters() map[string]string { return s.filters }

func TestBuild_AllAggregate(t *testing.T) {
	sel, err := selection.New(catalog.Default(), catalog.DomainSales)
	require.NoError(t, err)

	req, err := Build(catalog.Default(), catalog.DomainSales, sel)
	require.NoError(t, err)
	require.Equal(t, Request{DataType: catalog.DomainSales}, req)
}

func TestBuild_ResolvesIDsAndCopiesFilters(t *testing.T) {
	sel, err := selection.New(catalog.Default(), catalog.DomainSales)
	require.NoError(t, err)
	require.NoError(t, sel.SetLevel(catalog.DimTime, "Month"))
	require.NoError(t, sel.SetLevel(catalog.DimCustomer, "CustomerName"))
	require.NoError(t, sel.SetLevel(catalog.DimItem, "SizeWeight"))
	require.NoError(t, sel.SetLevel(catalog.DimGeography, "CityKey"))
	sel.SetFilter("Month", "Month 2")

	req, err := Build(catalog.Default(), catalog.DomainSales, sel)
	require.NoError(t, err)
	require.Equal(t, Request{
		DataType: catalog.DomainSales,
		Time:     3,
		Customer: 3,
		Item:     4,
		Geo:      2,
		Filters:  map[string]string{"Month": "Month 2"},
	}, req)

	// The request owns its filter map.
	sel.SetFilter("Month", "Month 9")
	require.Equal(t, "Month 2", req.Filters["Month"])
}

func TestBuild_StaleLevelFails(t *testing.T) {
	sel := staticSelection{levels: map[catalog.Dimension]string{catalog.DimCustomer: "CustomerType"}}

	_, err := Build(catalog.Default(), catalog.DomainInventory, sel)
	require.ErrorIs(t, err, catalog.ErrUnknownLevel)
}

func TestRequest_JSONShape(t *testing.T) {
	req := Request{DataType: catalog.DomainSales, Time: 1}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"dataType":"sales","time":1,"customer":0,"item":0,"geo":0}`, string(b))

	req.Filters = map[string]string{"Year": "2021"}
	b, err = json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"dataType":"sales","time":1,"customer":0,"item":0,"geo":0,"filters":{"Year":"2021"}}`, string(b))
}

func TestRequest_Validate(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name      string
		req       Request
		wantLevel bool
		wantReq   bool
	}{
		{name: "valid", req: Request{DataType: catalog.DomainSales, Time: 2, Item: 4}},
		{name: "unknown domain", req: Request{DataType: "finance"}, wantReq: true},
		{name: "unknown time id", req: Request{DataType: catalog.DomainSales, Time: 9}, wantLevel: true},
		{name: "customer id only valid for sales", req: Request{DataType: catalog.DomainInventory, Customer: 3}, wantLevel: true},
		{name: "negative id", req: Request{DataType: catalog.DomainInventory, Geo: -1}, wantLevel: true},
		{name: "empty filter column", req: Request{DataType: catalog.DomainSales, Filters: map[string]string{"": "x"}}, wantReq: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate(cat)
			switch {
			case tc.wantLevel:
				require.ErrorIs(t, err, catalog.ErrUnknownLevel)
			case tc.wantReq:
				require.ErrorIs(t, err, ErrInvalidRequest)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestRequest_CanonicalKeyIsStable(t *testing.T) {
	a := Request{DataType: catalog.DomainSales, Filters: map[string]string{"b": "2", "a": "1"}}
	b := Request{DataType: catalog.DomainSales, Filters: map[string]string{"a": "1", "b": "2"}}
	require.Equal(t, a.CanonicalKey(), b.CanonicalKey())

	c := Request{DataType: catalog.DomainInventory}
	require.NotEqual(t, a.CanonicalKey(), c.CanonicalKey())
}

func TestManifestFor(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{name: "aggregate sales", req: Request{DataType: catalog.DomainSales}, want: []string{"revenue"}},
		{name: "aggregate inventory", req: Request{DataType: catalog.DomainInventory}, want: []string{"stock"}},
		{name: "year", req: Request{DataType: catalog.DomainSales, Time: 1}, want: []string{"Year", "revenue"}},
		{name: "customer type", req: Request{DataType: catalog.DomainSales, Customer: 1}, want: []string{"CustomerType", "revenue"}},
		{name: "store code", req: Request{DataType: catalog.DomainInventory, Customer: 1}, want: []string{"StoreCode", "stock"}},
		{name: "size and weight", req: Request{DataType: catalog.DomainSales, Item: 4}, want: []string{"Size", "WeightRange", "revenue"}},
		{name: "state and city", req: Request{DataType: catalog.DomainInventory, Geo: 2}, want: []string{"State", "City", "stock"}},
		{
			name: "every dimension",
			req:  Request{DataType: catalog.DomainSales, Time: 2, Customer: 2, Item: 3, Geo: 1},
			want: []string{"Quarter", "CityKey", "ProductCode", "State", "revenue"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ManifestFor(tc.req)
			require.NoError(t, err)
			require.Equal(t, tc.want, m.Names())
			require.Len(t, m.DimensionColumns(), len(tc.want)-1)
		})
	}
}

func TestManifestFor_UnknownID(t *testing.T) {
	_, err := ManifestFor(Request{DataType: catalog.DomainInventory, Customer: 2})
	require.ErrorIs(t, err, catalog.ErrUnknownLevel)
}

func TestManifest_ValidateRow(t *testing.T) {
	m, err := ManifestFor(Request{DataType: catalog.DomainSales, Time: 1, Item: 1})
	require.NoError(t, err)

	require.NoError(t, m.ValidateRow(0, Row{"Year": 2020, "Size": "S", "revenue": int64(10)}))
	require.NoError(t, m.ValidateRow(0, Row{"Year": float64(2020), "Size": "S", "revenue": json.Number("10")}))

	err = m.ValidateRow(3, Row{"Year": "2020", "Size": "S", "revenue": 10})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, 3, ve.Row)
	require.Equal(t, "Year", ve.Column)
	require.Equal(t, KindNumeric, ve.ExpectedKind)
	require.Equal(t, "string", ve.ActualType)

	err = m.ValidateRow(1, Row{"Year": 2020, "revenue": 10, "Color": "red"})
	var mve *MultiValidationError
	require.ErrorAs(t, err, &mve)
	require.Len(t, mve.Errors, 2)
	require.Equal(t, "Size", mve.Errors[0].Column)
	require.Equal(t, []string{"Color"}, mve.Errors[1].UnknownColumns)
	require.Contains(t, err.Error(), "validation failed")
}

func TestManifest_ValidateRows(t *testing.T) {
	m, err := ManifestFor(Request{DataType: catalog.DomainInventory})
	require.NoError(t, err)

	require.NoError(t, m.ValidateRows([]Row{{"stock": 1}, {"stock": 2.5}}))

	err = m.ValidateRows([]Row{{"stock": 1}, {"stock": nil}, {}})
	var mve *MultiValidationError
	require.ErrorAs(t, err, &mve)
	require.Len(t, mve.Errors, 2)
	require.Equal(t, 1, mve.Errors[0].Row)
	require.Equal(t, 2, mve.Errors[1].Row)
	require.Contains(t, mve.Errors[1].Error(), "column is missing")
}
