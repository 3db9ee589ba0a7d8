// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paperlink/internal/httputil"
	"github.com/pdiddy/paperlink/internal/logging"
	"github.com/pdiddy/paperlink/pkg/types"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 16 << 20

// Response is the raw result of one transport call.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Transport issues a single GET. It is supplied by the host and owns all
// transport policy: headers, retries, pacing, proxying. A returned error
// means no response was received.
type Transport interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, url string) (*Response, error)

// Fetch calls f.
func (f TransportFunc) Fetch(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

// HTTPTransport is the host transport used by the CLI. It sets the
// User-Agent, paces requests, and retries on 429/503.
type HTTPTransport struct {
	client  *http.Client
	cfg     types.HTTPConfig
	limiter *rate.Limiter
	log     *logging.Logger
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport wires an HTTP client. A nil client gets one with
// cfg.Timeout. cfg.MinInterval > 0 enables request pacing.
func NewHTTPTransport(client *http.Client, cfg types.HTTPConfig, log *logging.Logger) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	t := &HTTPTransport{client: client, cfg: cfg, log: logging.OrNop(log)}
	if cfg.MinInterval > 0 {
		t.limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	return t
}

// Fetch issues a GET for url.
func (t *HTTPTransport) Fetch(ctx context.Context, url string) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if t.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", t.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, t.client, req, t.cfg.MaxRetries, t.log)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	t.log.Debug("fetched", "url", url, "status", resp.StatusCode, "bytes", len(body))
	return &Response{Status: resp.StatusCode, Body: body}, nil
}
