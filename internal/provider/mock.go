package provider

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aevon-lab/dimboard/internal/core/query"
)

const (
	minRows        = 5
	maxRows        = 20
	rowsPerColumn  = 3
	maxBaseValue   = 10000
	DefaultLatency = 800 * time.Millisecond
)

var sizes = [...]string{"S", "M", "L", "XL"}

// cellRules generate the value of a dimension column for row i.
var cellRules = map[string]func(i int) interface{}{
	"Year":         func(i int) interface{} { return 2020 + i%5 },
	"Quarter":      func(i int) interface{} { return fmt.Sprintf("Q%d", 1+i%4) },
	"Month":        func(i int) interface{} { return fmt.Sprintf("Month %d", 1+i%12) },
	"CustomerType": func(i int) interface{} { return fmt.Sprintf("Type %d", 1+i%3) },
	"CityKey":      func(i int) interface{} { return fmt.Sprintf("City Key %d", 1+i%6) },
	"CustomerName": func(i int) interface{} { return fmt.Sprintf("Customer %d", 1+i) },
	"StoreCode":    func(i int) interface{} { return fmt.Sprintf("Store %d", 10+i) },
	"Size":         func(i int) interface{} { return sizes[i%len(sizes)] },
	"WeightRange":  func(i int) interface{} { return fmt.Sprintf("%d-%dkg", (i%3+1)*5, (i%3+2)*5) },
	"ProductCode":  func(i int) interface{} { return fmt.Sprintf("PROD-%d", 1000+i) },
	"State":        func(i int) interface{} { return "State " + string(rune('A'+i%10)) },
	"City":         func(i int) interface{} { return fmt.Sprintf("City %d", i+1) },
}

// Mock synthesizes deterministic-shape rows for any valid request after a
// simulated latency. Only the value column is random.
type Mock struct {
	latency time.Duration
	policy  EmptyFilterPolicy
	random  func() float64
	logger  *slog.Logger
}

type MockOption func(*Mock)

// WithLatency sets the simulated response delay. Zero disables it.
func WithLatency(d time.Duration) MockOption {
	return func(m *Mock) { m.latency = d }
}

// WithEmptyFilterPolicy sets what happens when request filters match nothing.
func WithEmptyFilterPolicy(p EmptyFilterPolicy) MockOption {
	return func(m *Mock) { m.policy = p }
}

// WithSeed makes the value column reproducible. Seed 0 keeps the global source.
func WithSeed(seed uint64) MockOption {
	return func(m *Mock) {
		if seed == 0 {
			return
		}
		src := &lockedRand{r: rand.New(rand.NewPCG(seed, seed))}
		m.random = src.Float64
	}
}

// WithRandom replaces the random source with fn, which must return values in [0, 1).
func WithRandom(fn func() float64) MockOption {
	return func(m *Mock) { m.random = fn }
}

func WithLogger(l *slog.Logger) MockOption {
	return func(m *Mock) { m.logger = l }
}

func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		latency: DefaultLatency,
		policy:  FallbackToUnfiltered,
		random:  rand.Float64,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fetch generates rows for req. Every error is a *Failure.
func (m *Mock) Fetch(ctx context.Context, req query.Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Mock provider panicked", "panic", r, "dataType", req.DataType)
			res, err = nil, failure(nil, "data generation failed: %v", r)
		}
	}()

	if err := m.wait(ctx); err != nil {
		return nil, failure(err, "request cancelled")
	}

	manifest, err := query.ManifestFor(req)
	if err != nil {
		return nil, failure(err, "cannot build result schema")
	}

	rows := m.generate(manifest)
	if err := manifest.ValidateRows(rows); err != nil {
		return nil, failure(err, "generated rows do not match schema")
	}

	visible, ignored := applyPolicy(rows, req.Filters, m.policy)
	if ignored {
		m.logger.Info("Request filters matched no rows, returning unfiltered data",
			"dataType", req.DataType, "filters", req.Filters)
	}

	return &Result{Rows: visible, Manifest: manifest, FiltersIgnored: ignored}, nil
}

func (m *Mock) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RowCount is the number of rows generated for a manifest with n dimension
// columns.
func RowCount(n int) int {
	return max(minRows, min(maxRows, n*rowsPerColumn))
}

func (m *Mock) generate(manifest query.Manifest) []query.Row {
	dims := manifest.DimensionColumns()
	count := RowCount(len(dims))

	rows := make([]query.Row, count)
	for i := range rows {
		row := make(query.Row, len(dims)+1)
		for _, col := range dims {
			gen, ok := cellRules[col.Name]
			if !ok {
				panic(fmt.Sprintf("no generator for column %q", col.Name))
			}
			row[col.Name] = gen(i)
		}
		base := int64(math.Round(m.random() * maxBaseValue))
		row[manifest.ValueField] = base * int64(1+i%10)
		rows[i] = row
	}
	return rows
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
