package dashboard

import (
	"errors"
	"net/http"

	v1 "github.com/aevon-lab/dimboard/internal/api/v1"
	"github.com/aevon-lab/dimboard/internal/core/catalog"
	httperr "github.com/aevon-lab/dimboard/internal/core/errors"
	"github.com/aevon-lab/dimboard/internal/provider"
	"github.com/gin-gonic/gin"
)

// HandleCreate handles POST /v1/sessions
func (s *Service) HandleCreate(c *gin.Context) {
	var req v1.CreateSessionRequest
	if apiErr := v1.BindJSON(c, s.maxBodySizeBytes, true, &req); apiErr != nil {
		apiErr.Write(c)
		return
	}

	d, err := New(s.catalog, s.provider, req.Domain(), WithMetrics(s.metrics), WithLogger(s.logger))
	if err != nil {
		writeError(c, err)
		return
	}
	id := s.store.Add(d)
	s.logger.Info("Created dashboard session", "session_id", id, "dataType", req.Domain())

	c.JSON(http.StatusCreated, sessionResponse(id, d.State()))
}

// HandleGet handles GET /v1/sessions/:id
func (s *Service) HandleGet(c *gin.Context) {
	id, d, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, d.State()))
}

// HandleDelete handles DELETE /v1/sessions/:id
func (s *Service) HandleDelete(c *gin.Context) {
	if !s.store.Delete(c.Param("id")) {
		writeError(c, ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleSetDomain handles PUT /v1/sessions/:id/domain
func (s *Service) HandleSetDomain(c *gin.Context) {
	id, d, ok := s.session(c)
	if !ok {
		return
	}
	var req v1.SetDomainRequest
	if apiErr := v1.BindJSON(c, s.maxBodySizeBytes, false, &req); apiErr != nil {
		apiErr.Write(c)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, &v1.Error{Status: http.StatusBadRequest, Type: httperr.HttpInvalidJsonError, Message: err.Error()})
		return
	}
	if err := d.SetDomain(req.DataType); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, d.State()))
}

// HandleSetLevel handles PUT /v1/sessions/:id/levels/:dimension
func (s *Service) HandleSetLevel(c *gin.Context) {
	id, d, ok := s.session(c)
	if !ok {
		return
	}
	dim, err := catalog.ParseDimension(c.Param("dimension"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req v1.SetLevelRequest
	if apiErr := v1.BindJSON(c, s.maxBodySizeBytes, false, &req); apiErr != nil {
		apiErr.Write(c)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, &v1.Error{Status: http.StatusBadRequest, Type: httperr.HttpInvalidJsonError, Message: err.Error()})
		return
	}
	if err := d.SetLevel(dim, req.Level); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, d.State()))
}

// HandleSetFilter handles PUT /v1/sessions/:id/filters/:column
func (s *Service) HandleSetFilter(c *gin.Context) {
	_, d, ok := s.session(c)
	if !ok {
		return
	}
	var req v1.SetFilterRequest
	if apiErr := v1.BindJSON(c, s.maxBodySizeBytes, false, &req); apiErr != nil {
		apiErr.Write(c)
		return
	}
	d.SetFilter(c.Param("column"), req.Value)
	c.JSON(http.StatusOK, d.Table())
}

// HandleClearFilter handles DELETE /v1/sessions/:id/filters/:column
func (s *Service) HandleClearFilter(c *gin.Context) {
	_, d, ok := s.session(c)
	if !ok {
		return
	}
	d.ClearFilter(c.Param("column"))
	c.JSON(http.StatusOK, d.Table())
}

// HandleFetch handles POST /v1/sessions/:id/fetch
func (s *Service) HandleFetch(c *gin.Context) {
	id, d, ok := s.session(c)
	if !ok {
		return
	}
	res, err := d.Fetch(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	s.logger.Info("Dashboard data loaded",
		"session_id", id, "rows", len(res.Rows), "filtersIgnored", res.FiltersIgnored)
	c.JSON(http.StatusOK, d.Table())
}

// HandleTable handles GET /v1/sessions/:id/table
func (s *Service) HandleTable(c *gin.Context) {
	_, d, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d.Table())
}

func (s *Service) session(c *gin.Context) (string, *Dashboard, bool) {
	id := c.Param("id")
	d, err := s.store.Get(id)
	if err != nil {
		writeError(c, err)
		return "", nil, false
	}
	return id, d, true
}

func sessionResponse(id string, st State) v1.SessionResponse {
	return v1.SessionResponse{
		ID:        id,
		Snapshot:  st.Snapshot,
		Loading:   st.Loading,
		HasResult: st.HasResult,
		FetchedAt: st.FetchedAt,
		LastError: st.LastError,
	}
}

// writeError maps dashboard errors to the JSON error envelope.
func writeError(c *gin.Context, err error) {
	var apiErr *v1.Error
	var failure *provider.Failure
	switch {
	case errors.As(err, &apiErr):
		apiErr.Write(c)
		return
	case errors.Is(err, ErrSessionNotFound):
		apiErr = &v1.Error{Status: http.StatusNotFound, Type: httperr.HttpSessionNotFoundError, Message: "Dashboard session not found"}
	case errors.Is(err, ErrFetchInProgress):
		apiErr = &v1.Error{Status: http.StatusConflict, Type: httperr.HttpFetchInProgressError, Message: err.Error()}
	case errors.Is(err, ErrStaleResult):
		apiErr = &v1.Error{Status: http.StatusConflict, Type: httperr.HttpStaleResultError, Message: err.Error()}
	case errors.Is(err, catalog.ErrUnknownLevel),
		errors.Is(err, catalog.ErrUnknownDomain),
		errors.Is(err, catalog.ErrUnknownDimension):
		apiErr = &v1.Error{Status: http.StatusBadRequest, Type: httperr.HttpUnknownLevelError, Message: "Unknown dimension level", Details: err.Error()}
	case errors.As(err, &failure):
		apiErr = &v1.Error{Status: http.StatusBadGateway, Type: httperr.HttpProviderFailureError, Message: "Failed to load data", Details: failure.Error()}
	default:
		apiErr = &v1.Error{Status: http.StatusInternalServerError, Type: httperr.HttpInternalError, Message: "Internal error", Details: err.Error()}
	}
	apiErr.Write(c)
}
