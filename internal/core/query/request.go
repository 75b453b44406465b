package query

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aevon-lab/dimboard/internal/core/catalog"
)

// ErrInvalidRequest marks malformed requests that should return HTTP 400.
var ErrInvalidRequest = errors.New("invalid data request")

// Request is the normalized query sent to a data provider. It references
// dimension levels by numeric id only and is never mutated after construction.
type Request struct {
	DataType catalog.Domain    `json:"dataType"`
	Time     int               `json:"time"`
	Customer int               `json:"customer"`
	Item     int               `json:"item"`
	Geo      int               `json:"geo"`
	Filters  map[string]string `json:"filters,omitempty"`
}

// LevelID returns the requested level id of a dimension.
func (r Request) LevelID(dim catalog.Dimension) int {
	switch dim {
	case catalog.DimTime:
		return r.Time
	case catalog.DimCustomer:
		return r.Customer
	case catalog.DimItem:
		return r.Item
	case catalog.DimGeography:
		return r.Geo
	default:
		return 0
	}
}

func (r *Request) setLevelID(dim catalog.Dimension, id int) {
	switch dim {
	case catalog.DimTime:
		r.Time = id
	case catalog.DimCustomer:
		r.Customer = id
	case catalog.DimItem:
		r.Item = id
	case catalog.DimGeography:
		r.Geo = id
	}
}

// Validate checks a raw request (typically decoded from JSON) against the
// catalog: the domain must be known and every id must exist for its dimension.
func (r Request) Validate(cat *catalog.Catalog) error {
	if _, err := catalog.ParseDomain(string(r.DataType)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	for _, dim := range catalog.Dimensions {
		if _, err := cat.LevelByID(dim, r.DataType, r.LevelID(dim)); err != nil {
			return err
		}
	}
	for column := range r.Filters {
		if column == "" {
			return fmt.Errorf("%w: filter column must not be empty", ErrInvalidRequest)
		}
	}
	return nil
}

// CanonicalKey is a stable encoding of the request, used to deduplicate
// identical in-flight requests. encoding/json sorts map keys.
func (r Request) CanonicalKey() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%+v", r)
	}
	return string(b)
}
