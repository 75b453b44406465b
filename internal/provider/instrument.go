package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/aevon-lab/dimboard/internal/core/query"
	"github.com/aevon-lab/dimboard/internal/metrics"
)

type instrumented struct {
	next    Provider
	name    string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Instrument wraps a provider with fetch metrics and logging.
func Instrument(next Provider, name string, m *metrics.Metrics, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &instrumented{next: next, name: name, metrics: m, logger: logger}
}

func (p *instrumented) Fetch(ctx context.Context, req query.Request) (*Result, error) {
	start := time.Now()
	res, err := p.next.Fetch(ctx, req)
	elapsed := time.Since(start)
	p.metrics.ObserveDuration(p.name, elapsed.Seconds())

	domain := string(req.DataType)
	if err != nil {
		p.metrics.ObserveFetch(domain, metrics.OutcomeFailure)
		p.logger.Warn("Data fetch failed",
			"provider", p.name, "dataType", domain, "error", err, "duration", elapsed)
		return nil, AsFailure(err)
	}

	p.metrics.ObserveFetch(domain, metrics.OutcomeSuccess)
	p.metrics.ObserveRows(len(res.Rows))
	if res.FiltersIgnored {
		p.metrics.ObserveFallback(domain)
	}
	p.logger.Debug("Data fetch complete",
		"provider", p.name, "dataType", domain, "rows", len(res.Rows), "duration", elapsed)
	return res, nil
}
