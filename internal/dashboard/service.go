package dashboard

import (
	"log/slog"

	"github.com/aevon-lab/dimboard/internal/core/catalog"
	"github.com/aevon-lab/dimboard/internal/metrics"
	"github.com/aevon-lab/dimboard/internal/provider"
	"github.com/gin-gonic/gin"
)

// Service exposes dashboard sessions over HTTP.
type Service struct {
	catalog          *catalog.Catalog
	provider         provider.Provider
	store            *Store
	metrics          *metrics.Metrics
	logger           *slog.Logger
	maxBodySizeBytes int64
}

// NewService creates the session API. m may be nil.
func NewService(cat *catalog.Catalog, p provider.Provider, store *Store, m *metrics.Metrics, maxBodySizeKB int) *Service {
	if cat == nil {
		panic("dashboard: catalog must not be nil")
	}
	if p == nil {
		panic("dashboard: provider must not be nil")
	}
	if store == nil {
		panic("dashboard: store must not be nil")
	}
	if maxBodySizeKB <= 0 {
		maxBodySizeKB = 64
	}
	return &Service{
		catalog:          cat,
		provider:         p,
		store:            store,
		metrics:          m,
		logger:           slog.Default(),
		maxBodySizeBytes: int64(maxBodySizeKB) * 1024,
	}
}

// RegisterRoutes registers the dashboard session routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/v1/sessions")
	g.POST("", s.HandleCreate)
	g.GET("/:id", s.HandleGet)
	g.DELETE("/:id", s.HandleDelete)
	g.PUT("/:id/domain", s.HandleSetDomain)
	g.PUT("/:id/levels/:dimension", s.HandleSetLevel)
	g.PUT("/:id/filters/:column", s.HandleSetFilter)
	g.DELETE("/:id/filters/:column", s.HandleClearFilter)
	g.POST("/:id/fetch", s.HandleFetch)
	g.GET("/:id/table", s.HandleTable)
}
