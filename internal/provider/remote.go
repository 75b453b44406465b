package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aevon-lab/dimboard/internal/core/query"
)

// maxRemoteBody caps how much of an upstream response is read.
const maxRemoteBody = 8 << 20

// Remote forwards requests to an upstream service speaking the same JSON
// envelope. Identical concurrent requests share one upstream round trip.
type Remote struct {
	url    string
	client *http.Client
	logger *slog.Logger
	group  singleflight.Group
}

// NewRemote creates a provider posting requests to url.
func NewRemote(url string, timeout time.Duration, logger *slog.Logger) *Remote {
	if logger == nil {
		logger = slog.Default()
	}
	return &Remote{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch posts req upstream and validates the returned rows against the
// request's manifest. Every error is a *Failure.
func (r *Remote) Fetch(ctx context.Context, req query.Request) (*Result, error) {
	manifest, err := query.ManifestFor(req)
	if err != nil {
		return nil, failure(err, "cannot build result schema")
	}

	// The shared round trip outlives any single caller; the client timeout bounds it.
	ch := r.group.DoChan(req.CanonicalKey(), func() (interface{}, error) {
		return r.roundTrip(context.WithoutCancel(ctx), req)
	})

	var out singleflight.Result
	select {
	case <-ctx.Done():
		return nil, failure(ctx.Err(), "request cancelled")
	case out = <-ch:
	}
	if out.Err != nil {
		return nil, AsFailure(out.Err)
	}
	if out.Shared {
		r.logger.Debug("Shared upstream response", "dataType", req.DataType)
	}

	resp := out.Val.(*Response)
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "upstream reported failure"
		}
		return nil, &Failure{Message: msg}
	}
	if err := manifest.ValidateRows(resp.Data); err != nil {
		return nil, failure(err, "upstream rows do not match schema")
	}

	return &Result{Rows: resp.Data, Manifest: manifest, FiltersIgnored: resp.FiltersIgnored}, nil
}

func (r *Remote) roundTrip(ctx context.Context, req query.Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, failure(err, "encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, failure(err, "build upstream request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, failure(err, "upstream request failed")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, failure(nil, "upstream returned status %d", httpResp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(httpResp.Body, maxRemoteBody))
	dec.UseNumber()
	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return nil, failure(err, "decode upstream response")
	}
	return &resp, nil
}

// String identifies the upstream in logs.
func (r *Remote) String() string {
	return fmt.Sprintf("remote(%s)", r.url)
}
