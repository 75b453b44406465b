package query

import (
	"github.com/aevon-lab/dimboard/internal/core/catalog"
)

// Selection is the read side of a selection state needed to build a request.
type Selection interface {
	LevelKey(dim catalog.Dimension) string
	Filters() map[string]string
}

// Build resolves every chosen level key to its catalog id for the given domain
// and copies the filter map verbatim. A level that is not valid for the domain
// fails with catalog.ErrUnknownLevel.
func Build(cat *catalog.Catalog, domain catalog.Domain, sel Selection) (Request, error) {
	req := Request{DataType: domain}
	for _, dim := range catalog.Dimensions {
		id, err := cat.Resolve(dim, domain, sel.LevelKey(dim))
		if err != nil {
			return Request{}, err
		}
		req.setLevelID(dim, id)
	}

	filters := sel.Filters()
	if len(filters) > 0 {
		req.Filters = make(map[string]string, len(filters))
		for k, v := range filters {
			req.Filters[k] = v
		}
	}
	return req, nil
}
