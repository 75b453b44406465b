package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aevon-lab/dimboard/internal/core/catalog"
	"github.com/aevon-lab/dimboard/internal/core/query"
	"github.com/aevon-lab/dimboard/internal/core/selection"
	"github.com/aevon-lab/dimboard/internal/metrics"
	"github.com/aevon-lab/dimboard/internal/provider"
)

var (
	// ErrFetchInProgress is returned when a fetch is started while another
	// one for the same dashboard is still pending.
	ErrFetchInProgress = errors.New("a fetch is already in progress")

	// ErrStaleResult is returned when a fetch completes after a newer state
	// change superseded it. The result is discarded.
	ErrStaleResult = errors.New("fetch result superseded by a newer state change")
)

// Dashboard is the view-layer state: one selection, the last fetched result
// and the sequence tokens guarding against late responses. It is safe for
// concurrent use.
type Dashboard struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	provider  provider.Provider
	metrics   *metrics.Metrics
	logger    *slog.Logger
	selection *selection.State

	result    *provider.Result
	fetchedAt time.Time
	lastError string

	// seq is the latest issued token; inflight is the token of the pending
	// fetch, 0 when idle.
	seq      uint64
	inflight uint64

	nowFn func() time.Time
}

type Option func(*Dashboard)

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dashboard) { d.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dashboard) { d.logger = l }
}

// New creates a dashboard for domain with every dimension at its aggregate level.
func New(cat *catalog.Catalog, p provider.Provider, domain catalog.Domain, opts ...Option) (*Dashboard, error) {
	sel, err := selection.New(cat, domain)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		catalog:   cat,
		provider:  p,
		logger:    slog.Default(),
		selection: sel,
		nowFn:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// SetDomain switches the active domain, resetting the customer level and the
// column filters. The current result is discarded and a pending fetch is
// superseded.
func (d *Dashboard) SetDomain(domain catalog.Domain) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if domain == d.selection.Domain() {
		return nil
	}
	if err := d.selection.SetDomain(domain); err != nil {
		return err
	}
	d.result = nil
	d.fetchedAt = time.Time{}
	d.lastError = ""
	d.seq++
	// A superseded fetch may still be running; its result is discarded as stale.
	d.inflight = 0
	return nil
}

// SetLevel selects a level for one dimension in the current domain.
func (d *Dashboard) SetLevel(dim catalog.Dimension, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection.SetLevel(dim, key)
}

// SetFilter constrains a column of the displayed result. It does not fetch.
func (d *Dashboard) SetFilter(column, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection.SetFilter(column, value)
}

// ClearFilter removes a column constraint.
func (d *Dashboard) ClearFilter(column string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection.ClearFilter(column)
}

// Fetch builds a request from the current selection and resolves it. The
// result replaces the current one only if no newer state change happened
// meanwhile. A provider failure leaves the current result unchanged.
func (d *Dashboard) Fetch(ctx context.Context) (*provider.Result, error) {
	d.mu.Lock()
	if d.inflight != 0 {
		d.mu.Unlock()
		return nil, ErrFetchInProgress
	}
	req, err := query.Build(d.catalog, d.selection.Domain(), d.selection)
	if err != nil {
		d.mu.Unlock()
		return nil, err
	}
	d.seq++
	token := d.seq
	d.inflight = token
	d.mu.Unlock()

	res, err := d.provider.Fetch(ctx, req)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inflight == token {
		d.inflight = 0
	}
	if token != d.seq {
		d.metrics.ObserveStale()
		d.logger.Info("Discarding superseded fetch result", "token", token, "latest", d.seq)
		return nil, ErrStaleResult
	}
	if err != nil {
		f := provider.AsFailure(err)
		d.lastError = f.Error()
		return nil, f
	}

	d.result = res
	d.fetchedAt = d.nowFn()
	d.lastError = ""
	return res, nil
}

// Table renders the current result through the column filters.
func (d *Dashboard) Table() Table {
	d.mu.Lock()
	defer d.mu.Unlock()
	return BuildTable(d.result, d.selection.Domain(), d.selection.Filters())
}

// State is a read-only view of a dashboard.
type State struct {
	selection.Snapshot
	Loading   bool       `json:"loading"`
	HasResult bool       `json:"hasResult"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

// State copies the current selection and fetch status.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := State{
		Snapshot:  d.selection.Snapshot(),
		Loading:   d.inflight != 0,
		HasResult: d.result != nil,
		LastError: d.lastError,
	}
	if d.result != nil {
		at := d.fetchedAt
		st.FetchedAt = &at
	}
	return st
}
