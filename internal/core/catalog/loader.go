package catalog

import (
	"crypto/sha256"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rawSpec is the on-disk YAML shape. Levels are listed in display order.
//
//	dimensions:
//	  time:
//	    titles: {sales: "Time Dimension", inventory: "Time Dimension"}
//	    levels:
//	      sales:
//	        - {key: "[]", id: 0, label: "All Time"}
type rawSpec struct {
	Dimensions map[string]struct {
		Titles map[string]string  `yaml:"titles"`
		Levels map[string][]Level `yaml:"levels"`
	} `yaml:"dimensions"`
}

// LoadFile reads a catalog from a YAML file. An empty path returns the builtin
// catalog. The file fully replaces the builtin tables and is fingerprinted.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var raw rawSpec
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	spec := Spec{Dimensions: make(map[Dimension]DimensionSpec, len(raw.Dimensions))}
	for dimName, rd := range raw.Dimensions {
		dim, err := ParseDimension(dimName)
		if err != nil {
			return nil, err
		}
		ds := DimensionSpec{
			Titles: make(map[Domain]string, len(rd.Titles)),
			Levels: make(map[Domain]Levels, len(rd.Levels)),
		}
		for domainName, title := range rd.Titles {
			domain, err := ParseDomain(domainName)
			if err != nil {
				return nil, err
			}
			ds.Titles[domain] = title
		}
		for domainName, levels := range rd.Levels {
			domain, err := ParseDomain(domainName)
			if err != nil {
				return nil, err
			}
			ds.Levels[domain] = levels
		}
		spec.Dimensions[dim] = ds
	}

	c, err := New(spec)
	if err != nil {
		return nil, err
	}
	c.fingerprint = fmt.Sprintf("%x", sha256.Sum256(data))
	return c, nil
}
