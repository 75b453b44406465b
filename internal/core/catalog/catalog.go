package catalog

import (
	"errors"
	"fmt"
)

// Dimension is an axis of data breakdown.
type Dimension string

const (
	DimTime      Dimension = "time"
	DimCustomer  Dimension = "customer"
	DimItem      Dimension = "item"
	DimGeography Dimension = "geo"
)

// Dimensions lists every dimension in request/column order.
var Dimensions = []Dimension{DimTime, DimCustomer, DimItem, DimGeography}

// Domain is the business dataset a request targets.
type Domain string

const (
	DomainSales     Domain = "sales"
	DomainInventory Domain = "inventory"
)

// Domains lists every supported domain.
var Domains = []Domain{DomainSales, DomainInventory}

// AggregateLevel is the level key meaning "no breakdown". It exists for every
// (dimension, domain) pair and always resolves to id 0.
const AggregateLevel = "[]"

var (
	ErrUnknownLevel     = errors.New("unknown level")
	ErrUnknownDomain    = errors.New("unknown domain")
	ErrUnknownDimension = errors.New("unknown dimension")
)

// LevelError describes an invalid dimension/level/domain combination.
// It unwraps to ErrUnknownLevel.
type LevelError struct {
	Dimension Dimension
	Domain    Domain
	Level     string
	ID        int
	byID      bool
}

func (e *LevelError) Error() string {
	if e.byID {
		return fmt.Sprintf("unknown level id %d for dimension %s in domain %s", e.ID, e.Dimension, e.Domain)
	}
	return fmt.Sprintf("unknown level %q for dimension %s in domain %s", e.Level, e.Dimension, e.Domain)
}

func (e *LevelError) Unwrap() error { return ErrUnknownLevel }

// UnknownLevelID reports a level id that does not exist for a (dimension, domain) pair.
func UnknownLevelID(dim Dimension, domain Domain, id int) error {
	return &LevelError{Dimension: dim, Domain: domain, ID: id, byID: true}
}

// ParseDomain validates a domain name.
func ParseDomain(s string) (Domain, error) {
	switch d := Domain(s); d {
	case DomainSales, DomainInventory:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
}

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// ValueField returns the value column reported for a domain.
func (d Domain) ValueField() string {
	if d == DomainInventory {
		return "stock"
	}
	return "revenue"
}

// ValueTitle returns the display title of the domain's value column.
func (d Domain) ValueTitle() string {
	if d == DomainInventory {
		return "Stock Level"
	}
	return "Revenue"
}

// Level is one selectable granularity within a dimension.
type Level struct {
	Key   string `json:"key" yaml:"key"`
	ID    int    `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Levels is an ordered set of levels for one (dimension, domain) pair.
type Levels []Level

// Lookup returns the level with the given key.
func (ls Levels) Lookup(key string) (Level, bool) {
	for _, l := range ls {
		if l.Key == key {
			return l, true
		}
	}
	return Level{}, false
}

// LookupID returns the first level with the given id.
func (ls Levels) LookupID(id int) (Level, bool) {
	for _, l := range ls {
		if l.ID == id {
			return l, true
		}
	}
	return Level{}, false
}

type pairKey struct {
	dim    Dimension
	domain Domain
}

// Catalog is the immutable registry of selectable levels.
// It is safe for concurrent use; no mutation operations exist.
type Catalog struct {
	levels      map[pairKey]Levels
	titles      map[pairKey]string
	fingerprint string
}

// Spec is the serializable shape of a catalog: per dimension, per domain, ordered levels.
type Spec struct {
	Dimensions map[Dimension]DimensionSpec `yaml:"dimensions" json:"dimensions"`
}

// DimensionSpec holds one dimension's per-domain level tables.
type DimensionSpec struct {
	Titles map[Domain]string `yaml:"titles" json:"titles"`
	Levels map[Domain]Levels `yaml:"levels" json:"levels"`
}

// New builds a catalog from a spec after validating it. Every dimension must
// define levels for every domain, include the aggregate level with id 0, and
// use unique keys and ids within each (dimension, domain) pair.
func New(spec Spec) (*Catalog, error) {
	c := &Catalog{
		levels: make(map[pairKey]Levels),
		titles: make(map[pairKey]string),
	}
	for _, dim := range Dimensions {
		ds, ok := spec.Dimensions[dim]
		if !ok {
			return nil, fmt.Errorf("catalog: dimension %s is not defined", dim)
		}
		for _, domain := range Domains {
			levels, ok := ds.Levels[domain]
			if !ok || len(levels) == 0 {
				return nil, fmt.Errorf("catalog: dimension %s has no levels for domain %s", dim, domain)
			}
			if err := validateLevels(dim, domain, levels); err != nil {
				return nil, err
			}
			key := pairKey{dim: dim, domain: domain}
			c.levels[key] = append(Levels(nil), levels...)
			c.titles[key] = ds.Titles[domain]
		}
	}
	for dim := range spec.Dimensions {
		if _, err := ParseDimension(string(dim)); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	return c, nil
}

func validateLevels(dim Dimension, domain Domain, levels Levels) error {
	keys := make(map[string]struct{}, len(levels))
	ids := make(map[int]string, len(levels))
	for _, l := range levels {
		if l.Key == "" {
			return fmt.Errorf("catalog: %s/%s: empty level key", dim, domain)
		}
		if l.ID < 0 {
			return fmt.Errorf("catalog: %s/%s: level %q has negative id %d", dim, domain, l.Key, l.ID)
		}
		if _, dup := keys[l.Key]; dup {
			return fmt.Errorf("catalog: %s/%s: duplicate level key %q", dim, domain, l.Key)
		}
		if other, dup := ids[l.ID]; dup {
			return fmt.Errorf("catalog: %s/%s: levels %q and %q share id %d", dim, domain, other, l.Key, l.ID)
		}
		keys[l.Key] = struct{}{}
		ids[l.ID] = l.Key
	}
	agg, ok := levels.Lookup(AggregateLevel)
	if !ok {
		return fmt.Errorf("catalog: %s/%s: aggregate level %q is missing", dim, domain, AggregateLevel)
	}
	if agg.ID != 0 {
		return fmt.Errorf("catalog: %s/%s: aggregate level must have id 0, got %d", dim, domain, agg.ID)
	}
	return nil
}

// LevelsFor returns the ordered levels of a dimension in a domain.
// The returned slice is a copy.
func (c *Catalog) LevelsFor(dim Dimension, domain Domain) (Levels, error) {
	levels, ok := c.levels[pairKey{dim: dim, domain: domain}]
	if !ok {
		if _, err := ParseDimension(string(dim)); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	return append(Levels(nil), levels...), nil
}

// Title returns the display title of a dimension in a domain.
func (c *Catalog) Title(dim Dimension, domain Domain) string {
	return c.titles[pairKey{dim: dim, domain: domain}]
}

// Level returns the level for a key, failing with ErrUnknownLevel when the key
// is absent for the (dimension, domain) pair.
func (c *Catalog) Level(dim Dimension, domain Domain, key string) (Level, error) {
	levels, ok := c.levels[pairKey{dim: dim, domain: domain}]
	if ok {
		if l, found := levels.Lookup(key); found {
			return l, nil
		}
	}
	return Level{}, &LevelError{Dimension: dim, Domain: domain, Level: key}
}

// Resolve maps a level key to its numeric id.
func (c *Catalog) Resolve(dim Dimension, domain Domain, key string) (int, error) {
	l, err := c.Level(dim, domain, key)
	if err != nil {
		return 0, err
	}
	return l.ID, nil
}

// LevelByID is the reverse of Resolve, used to validate raw requests.
func (c *Catalog) LevelByID(dim Dimension, domain Domain, id int) (Level, error) {
	levels, ok := c.levels[pairKey{dim: dim, domain: domain}]
	if ok {
		if l, found := levels.LookupID(id); found {
			return l, nil
		}
	}
	return Level{}, UnknownLevelID(dim, domain, id)
}

// Fingerprint is the SHA-256 of the file the catalog was loaded from, or
// "builtin" for the compiled-in tables.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}
