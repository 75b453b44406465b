package dataapi

import (
	"github.com/aevon-lab/dimboard/internal/core/catalog"
	"github.com/aevon-lab/dimboard/internal/provider"
	"github.com/gin-gonic/gin"
)

// Service serves the catalog and the stateless request/response endpoint.
type Service struct {
	catalog          *catalog.Catalog
	provider         provider.Provider
	maxBodySizeBytes int64
}

func NewService(cat *catalog.Catalog, p provider.Provider, maxBodySizeKB int) *Service {
	if cat == nil {
		panic("dataapi: catalog must not be nil")
	}
	if p == nil {
		panic("dataapi: provider must not be nil")
	}
	if maxBodySizeKB <= 0 {
		maxBodySizeKB = 64
	}
	return &Service{
		catalog:          cat,
		provider:         p,
		maxBodySizeBytes: int64(maxBodySizeKB) * 1024,
	}
}

// RegisterRoutes registers the data API routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/catalog/:domain", s.HandleCatalog)
	r.POST("/v1/data", s.HandleFetch)
}
