package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_AggregateLevelResolvesToZero(t *testing.T) {
	c := Default()
	for _, dim := range Dimensions {
		for _, domain := range Domains {
			id, err := c.Resolve(dim, domain, AggregateLevel)
			require.NoError(t, err, "%s/%s", dim, domain)
			require.Equal(t, 0, id, "%s/%s", dim, domain)
		}
	}
}

func TestDefault_IDsUniquePerPair(t *testing.T) {
	c := Default()
	for _, dim := range Dimensions {
		for _, domain := range Domains {
			levels, err := c.LevelsFor(dim, domain)
			require.NoError(t, err)
			seen := map[int]bool{}
			for _, l := range levels {
				require.False(t, seen[l.ID], "%s/%s: duplicate id %d", dim, domain, l.ID)
				seen[l.ID] = true
			}
		}
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		dim     Dimension
		domain  Domain
		key     string
		wantID  int
		wantErr bool
	}{
		{name: "time year", dim: DimTime, domain: DomainSales, key: "Year", wantID: 1},
		{name: "time month inventory", dim: DimTime, domain: DomainInventory, key: "Month", wantID: 3},
		{name: "customer type sales", dim: DimCustomer, domain: DomainSales, key: "CustomerType", wantID: 1},
		{name: "customer name sales", dim: DimCustomer, domain: DomainSales, key: "CustomerName", wantID: 3},
		{name: "store code inventory", dim: DimCustomer, domain: DomainInventory, key: "StoreCode", wantID: 1},
		{name: "customer type not valid for inventory", dim: DimCustomer, domain: DomainInventory, key: "CustomerType", wantErr: true},
		{name: "store code not valid for sales", dim: DimCustomer, domain: DomainSales, key: "StoreCode", wantErr: true},
		{name: "item size and weight", dim: DimItem, domain: DomainSales, key: "SizeWeight", wantID: 4},
		{name: "geo city key", dim: DimGeography, domain: DomainInventory, key: "CityKey", wantID: 2},
		{name: "unknown key", dim: DimTime, domain: DomainSales, key: "Week", wantErr: true},
		{name: "unknown domain", dim: DimTime, domain: Domain("finance"), key: AggregateLevel, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := c.Resolve(tc.dim, tc.domain, tc.key)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownLevel)
				var levelErr *LevelError
				require.ErrorAs(t, err, &levelErr)
				require.Equal(t, tc.key, levelErr.Level)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantID, id)
		})
	}
}

func TestCatalog_LevelsForPreservesOrder(t *testing.T) {
	levels, err := Default().LevelsFor(DimTime, DomainSales)
	require.NoError(t, err)

	keys := make([]string, 0, len(levels))
	for _, l := range levels {
		keys = append(keys, l.Key)
	}
	require.Equal(t, []string{AggregateLevel, "Year", "Quarter", "Month"}, keys)

	// Mutating the returned slice must not leak into the catalog.
	levels[0].Label = "changed"
	again, err := Default().LevelsFor(DimTime, DomainSales)
	require.NoError(t, err)
	require.Equal(t, "All Time", again[0].Label)
}

func TestCatalog_LevelsForUnknown(t *testing.T) {
	_, err := Default().LevelsFor(Dimension("weather"), DomainSales)
	require.ErrorIs(t, err, ErrUnknownDimension)

	_, err = Default().LevelsFor(DimTime, Domain("finance"))
	require.ErrorIs(t, err, ErrUnknownDomain)
}

func TestCatalog_LevelByID(t *testing.T) {
	c := Default()

	l, err := c.LevelByID(DimCustomer, DomainInventory, 1)
	require.NoError(t, err)
	require.Equal(t, "StoreCode", l.Key)

	_, err = c.LevelByID(DimCustomer, DomainInventory, 2)
	require.ErrorIs(t, err, ErrUnknownLevel)
	require.Contains(t, err.Error(), "unknown level id 2")
}

func TestCatalog_Titles(t *testing.T) {
	c := Default()
	require.Equal(t, "Customer Dimension", c.Title(DimCustomer, DomainSales))
	require.Equal(t, "Store Dimension", c.Title(DimCustomer, DomainInventory))
	require.Equal(t, "builtin", c.Fingerprint())
}

func TestDomain_ValueField(t *testing.T) {
	require.Equal(t, "revenue", DomainSales.ValueField())
	require.Equal(t, "stock", DomainInventory.ValueField())
	require.Equal(t, "Revenue", DomainSales.ValueTitle())
	require.Equal(t, "Stock Level", DomainInventory.ValueTitle())
}

func TestParseDomainAndDimension(t *testing.T) {
	d, err := ParseDomain("inventory")
	require.NoError(t, err)
	require.Equal(t, DomainInventory, d)

	_, err = ParseDomain("Sales")
	require.ErrorIs(t, err, ErrUnknownDomain)

	dim, err := ParseDimension("geo")
	require.NoError(t, err)
	require.Equal(t, DimGeography, dim)

	_, err = ParseDimension("geography")
	require.ErrorIs(t, err, ErrUnknownDimension)
}

const validCatalogYAML = `
dimensions:
  time:
    titles: {sales: "When", inventory: "When"}
    levels:
      sales:
        - {key: "[]", id: 0, label: "Ever"}
        - {key: "Year", id: 1, label: "Year"}
      inventory:
        - {key: "[]", id: 0, label: "Ever"}
  customer:
    levels:
      sales:
        - {key: "[]", id: 0, label: "All Customers"}
      inventory:
        - {key: "[]", id: 0, label: "All Stores"}
  item:
    levels:
      sales:
        - {key: "[]", id: 0, label: "All Items"}
      inventory:
        - {key: "[]", id: 0, label: "All Items"}
  geo:
    levels:
      sales:
        - {key: "[]", id: 0, label: "All Stores"}
      inventory:
        - {key: "[]", id: 0, label: "All Stores"}
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validCatalogYAML), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, c.Fingerprint(), 64)
	require.Equal(t, "When", c.Title(DimTime, DomainSales))

	id, err := c.Resolve(DimTime, DomainSales, "Year")
	require.NoError(t, err)
	require.Equal(t, 1, id)

	_, err = c.Resolve(DimTime, DomainInventory, "Year")
	require.ErrorIs(t, err, ErrUnknownLevel)
}

func TestLoadFile_EmptyPathReturnsBuiltin(t *testing.T) {
	c, err := LoadFile("")
	require.NoError(t, err)
	require.Same(t, Default(), c)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "dimensions: [",
			wantErr: "parsing catalog",
		},
		{
			name:    "unknown dimension",
			yaml:    "dimensions:\n  weather:\n    levels: {}\n",
			wantErr: "unknown dimension",
		},
		{
			name:    "missing dimension",
			yaml:    "dimensions: {}\n",
			wantErr: "dimension time is not defined",
		},
		{
			name: "aggregate level with non-zero id",
			yaml: `
dimensions:
  time:
    levels:
      sales: [{key: "[]", id: 1, label: "x"}]
      inventory: [{key: "[]", id: 0, label: "x"}]
`,
			wantErr: "aggregate level must have id 0",
		},
		{
			name: "duplicate ids",
			yaml: `
dimensions:
  time:
    levels:
      sales: [{key: "[]", id: 0, label: "x"}, {key: "Year", id: 0, label: "y"}]
      inventory: [{key: "[]", id: 0, label: "x"}]
`,
			wantErr: "share id 0",
		},
		{
			name: "missing aggregate level",
			yaml: `
dimensions:
  time:
    levels:
      sales: [{key: "Year", id: 1, label: "y"}]
      inventory: [{key: "[]", id: 0, label: "x"}]
`,
			wantErr: "aggregate level \"[]\" is missing",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
