package catalog

import "sync"

func bothDomains(levels Levels) map[Domain]Levels {
	return map[Domain]Levels{
		DomainSales:     levels,
		DomainInventory: levels,
	}
}

// BuiltinSpec returns the compiled-in level tables.
func BuiltinSpec() Spec {
	return Spec{Dimensions: map[Dimension]DimensionSpec{
		DimTime: {
			Titles: map[Domain]string{DomainSales: "Time Dimension", DomainInventory: "Time Dimension"},
			Levels: bothDomains(Levels{
				{Key: AggregateLevel, ID: 0, Label: "All Time"},
				{Key: "Year", ID: 1, Label: "Year"},
				{Key: "Quarter", ID: 2, Label: "Quarter"},
				{Key: "Month", ID: 3, Label: "Month"},
			}),
		},
		// Customer levels are not portable across domains: inventory breaks
		// down by store instead.
		DimCustomer: {
			Titles: map[Domain]string{DomainSales: "Customer Dimension", DomainInventory: "Store Dimension"},
			Levels: map[Domain]Levels{
				DomainSales: {
					{Key: AggregateLevel, ID: 0, Label: "All Customers"},
					{Key: "CustomerType", ID: 1, Label: "Customer Type"},
					{Key: "CityKey", ID: 2, Label: "City Key"},
					{Key: "CustomerName", ID: 3, Label: "Customer Name"},
				},
				DomainInventory: {
					{Key: AggregateLevel, ID: 0, Label: "All Stores"},
					{Key: "StoreCode", ID: 1, Label: "Store Code"},
				},
			},
		},
		DimItem: {
			Titles: map[Domain]string{DomainSales: "Product Dimension", DomainInventory: "Product Dimension"},
			Levels: bothDomains(Levels{
				{Key: AggregateLevel, ID: 0, Label: "All Items"},
				{Key: "Size", ID: 1, Label: "Size"},
				{Key: "WeightRange", ID: 2, Label: "Weight Range"},
				{Key: "ProductCode", ID: 3, Label: "Product Code"},
				{Key: "SizeWeight", ID: 4, Label: "Size & Weight Range"},
			}),
		},
		DimGeography: {
			Titles: map[Domain]string{DomainSales: "Store Dimension", DomainInventory: "Store Dimension"},
			Levels: bothDomains(Levels{
				{Key: AggregateLevel, ID: 0, Label: "All Stores"},
				{Key: "StoreKey", ID: 1, Label: "Store Key"},
				{Key: "CityKey", ID: 2, Label: "City Key"},
			}),
		},
	}}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from BuiltinSpec. The builtin tables are
// validated by tests, so a failure here is a programming error.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(BuiltinSpec())
		if err != nil {
			panic("catalog: invalid builtin spec: " + err.Error())
		}
		c.fingerprint = "builtin"
		defaultCatalog = c
	})
	return defaultCatalog
}
