package selection

import (
	"fmt"

	"github.com/aevon-lab/dimboard/internal/core/catalog"
)

// Choice is the chosen level of one dimension together with its display label.
type Choice struct {
	Level string `json:"level"`
	Label string `json:"label"`
}

// State is the user's current selection: a level per dimension for the active
// domain plus column-level equality filters.
//
// State is not safe for concurrent use; its owner serializes access.
type State struct {
	catalog *catalog.Catalog
	domain  catalog.Domain
	choices map[catalog.Dimension]Choice
	filters map[string]string
}

// New returns a State with every dimension at its aggregate level and no filters.
func New(cat *catalog.Catalog, domain catalog.Domain) (*State, error) {
	if _, err := catalog.ParseDomain(string(domain)); err != nil {
		return nil, err
	}
	s := &State{
		catalog: cat,
		domain:  domain,
		choices: make(map[catalog.Dimension]Choice, len(catalog.Dimensions)),
		filters: make(map[string]string),
	}
	for _, dim := range catalog.Dimensions {
		if err := s.reset(dim); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *State) reset(dim catalog.Dimension) error {
	l, err := s.catalog.Level(dim, s.domain, catalog.AggregateLevel)
	if err != nil {
		return err
	}
	s.choices[dim] = Choice{Level: l.Key, Label: l.Label}
	return nil
}

// Domain returns the active domain.
func (s *State) Domain() catalog.Domain {
	return s.domain
}

// SetLevel selects a level for a dimension in the current domain. An invalid
// key fails with catalog.ErrUnknownLevel and leaves the state untouched.
func (s *State) SetLevel(dim catalog.Dimension, key string) error {
	if _, err := catalog.ParseDimension(string(dim)); err != nil {
		return err
	}
	l, err := s.catalog.Level(dim, s.domain, key)
	if err != nil {
		return err
	}
	s.choices[dim] = Choice{Level: l.Key, Label: l.Label}
	return nil
}

// SetDomain switches the active domain. The customer dimension is reset to its
// aggregate level for the new domain and every column filter is cleared.
// Switching to the current domain is a no-op.
func (s *State) SetDomain(domain catalog.Domain) error {
	if _, err := catalog.ParseDomain(string(domain)); err != nil {
		return err
	}
	if domain == s.domain {
		return nil
	}

	prev := s.domain
	s.domain = domain
	if err := s.reset(catalog.DimCustomer); err != nil {
		s.domain = prev
		return fmt.Errorf("reset customer level: %w", err)
	}
	s.filters = make(map[string]string)
	return nil
}

// SetFilter constrains a column to a literal value. The empty value is the
// "All" choice and removes the constraint.
func (s *State) SetFilter(column, value string) {
	if value == "" {
		delete(s.filters, column)
		return
	}
	s.filters[column] = value
}

// ClearFilter removes a column constraint.
func (s *State) ClearFilter(column string) {
	delete(s.filters, column)
}

// ClearFilters removes every column constraint.
func (s *State) ClearFilters() {
	s.filters = make(map[string]string)
}

// Choice returns the current choice for a dimension.
func (s *State) Choice(dim catalog.Dimension) Choice {
	return s.choices[dim]
}

// LevelKey returns the chosen level key for a dimension.
func (s *State) LevelKey(dim catalog.Dimension) string {
	return s.choices[dim].Level
}

// Filters returns a copy of the column filter map.
func (s *State) Filters() map[string]string {
	out := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		out[k] = v
	}
	return out
}

// Snapshot is a read-only copy of a State, suitable for rendering.
type Snapshot struct {
	Domain  catalog.Domain               `json:"dataType"`
	Choices map[catalog.Dimension]Choice `json:"dimensions"`
	Filters map[string]string            `json:"filters"`
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	choices := make(map[catalog.Dimension]Choice, len(s.choices))
	for k, v := range s.choices {
		choices[k] = v
	}
	return Snapshot{
		Domain:  s.domain,
		Choices: choices,
		Filters: s.Filters(),
	}
}
