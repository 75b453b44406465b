package v1

import (
	"fmt"
	"time"

	"github.com/aevon-lab/dimboard/internal/core/catalog"
	"github.com/aevon-lab/dimboard/internal/core/selection"
)

// CatalogResponse lists the selectable levels of every dimension for one domain.
type CatalogResponse struct {
	// DataType is the domain the levels apply to.
	DataType catalog.Domain `json:"dataType"`

	// ValueField is the result column holding the measure ("revenue" or "stock").
	ValueField string `json:"valueField"`

	// ValueTitle is the display title of ValueField.
	ValueTitle string `json:"valueTitle"`

	// Dimensions are in time, customer, item, geography order.
	Dimensions []CatalogDimension `json:"dimensions"`
}

// CatalogDimension is one dimension with its ordered levels.
type CatalogDimension struct {
	Name   catalog.Dimension `json:"name"`
	Title  string            `json:"title"`
	Levels catalog.Levels    `json:"levels"`
}

// NewCatalogResponse describes cat for domain.
func NewCatalogResponse(cat *catalog.Catalog, domain catalog.Domain) (*CatalogResponse, error) {
	resp := &CatalogResponse{
		DataType:   domain,
		ValueField: domain.ValueField(),
		ValueTitle: domain.ValueTitle(),
	}
	for _, dim := range catalog.Dimensions {
		levels, err := cat.LevelsFor(dim, domain)
		if err != nil {
			return nil, err
		}
		resp.Dimensions = append(resp.Dimensions, CatalogDimension{
			Name:   dim,
			Title:  cat.Title(dim, domain),
			Levels: levels,
		})
	}
	return resp, nil
}

// CreateSessionRequest starts a dashboard session.
// DataType is optional and defaults to sales.
type CreateSessionRequest struct {
	DataType catalog.Domain `json:"dataType"`
}

// Domain returns the requested domain, defaulting to sales.
func (r *CreateSessionRequest) Domain() catalog.Domain {
	if r.DataType == "" {
		return catalog.DomainSales
	}
	return r.DataType
}

// SetDomainRequest switches a session's domain.
type SetDomainRequest struct {
	DataType catalog.Domain `json:"dataType"`
}

func (r *SetDomainRequest) Validate() error {
	if r.DataType == "" {
		return fmt.Errorf("dataType is required")
	}
	return nil
}

// SetLevelRequest selects a dimension level by key, e.g. "Year" or "[]".
type SetLevelRequest struct {
	Level string `json:"level"`
}

func (r *SetLevelRequest) Validate() error {
	if r.Level == "" {
		return fmt.Errorf("level is required")
	}
	return nil
}

// SetFilterRequest constrains a column. An empty Value is the "All" choice.
type SetFilterRequest struct {
	Value string `json:"value"`
}

// SessionResponse is returned by session creation and state reads.
type SessionResponse struct {
	ID string `json:"id"`
	selection.Snapshot
	Loading   bool       `json:"loading"`
	HasResult bool       `json:"hasResult"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}
