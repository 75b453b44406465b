package dataapi

import (
	"errors"
	"log/slog"
	"net/http"

	v1 "github.com/aevon-lab/dimboard/internal/api/v1"
	"github.com/aevon-lab/dimboard/internal/core/catalog"
	httperr "github.com/aevon-lab/dimboard/internal/core/errors"
	"github.com/aevon-lab/dimboard/internal/core/query"
	"github.com/aevon-lab/dimboard/internal/provider"
	"github.com/gin-gonic/gin"
)

// HandleCatalog handles GET /v1/catalog/:domain
func (s *Service) HandleCatalog(c *gin.Context) {
	domain, err := catalog.ParseDomain(c.Param("domain"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnknownLevelError,
			Message:   "Unknown data type",
			Details:   err.Error(),
		})
		return
	}

	resp, err := v1.NewCatalogResponse(s.catalog, domain)
	if err != nil {
		slog.Error("Failed to describe catalog", "dataType", domain, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to describe catalog",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleFetch handles POST /v1/data. Provider failures are reported in the
// response envelope with status 200; malformed requests get 400.
func (s *Service) HandleFetch(c *gin.Context) {
	var req query.Request
	if apiErr := v1.BindJSON(c, s.maxBodySizeBytes, false, &req); apiErr != nil {
		apiErr.Write(c)
		return
	}

	if err := req.Validate(s.catalog); err != nil {
		slog.Warn("Rejected data request", "error", err, "dataType", req.DataType)
		requestError(err).Write(c)
		return
	}

	slog.Info("Data request",
		"dataType", req.DataType,
		"time", req.Time,
		"customer", req.Customer,
		"item", req.Item,
		"geo", req.Geo,
		"filters", len(req.Filters))

	res, err := s.provider.Fetch(c.Request.Context(), req)
	c.JSON(http.StatusOK, provider.NewResponse(res, err))
}

// requestError maps a validation error to its HTTP shape.
func requestError(err error) *v1.Error {
	switch {
	case errors.Is(err, catalog.ErrUnknownLevel), errors.Is(err, catalog.ErrUnknownDomain):
		return &v1.Error{
			Status:  http.StatusBadRequest,
			Type:    httperr.HttpUnknownLevelError,
			Message: "Unknown dimension level",
			Details: err.Error(),
		}
	default:
		return &v1.Error{
			Status:  http.StatusBadRequest,
			Type:    httperr.HttpInvalidJsonError,
			Message: "Invalid data request",
			Details: err.Error(),
		}
	}
}
