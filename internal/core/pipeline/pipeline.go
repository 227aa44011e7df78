// Package pipeline is the ordered chain every outbound ledger request passes
// through: busy tracking, metrics, error normalization, base-URL resolution,
// bearer attachment with 401 recovery, and finally the HTTP transport.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/loading"
	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/notify"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

type Stage func(next Doer) Doer

// Chain wraps transport so that stages[0] runs first.
func Chain(transport Doer, stages ...Stage) Doer {
	d := transport
	for i := len(stages) - 1; i >= 0; i-- {
		d = stages[i](d)
	}
	return d
}

// TokenSource is what the pipeline needs from the session.
type TokenSource interface {
	AccessToken() (string, bool)
	Refresh(ctx context.Context) (*models.Session, bool)
	Logout()
}

type Config struct {
	Origin    string
	Namespace string
	Timeout   time.Duration
	// AuthPath marks authentication endpoints, exempt from bearer and refresh.
	AuthPath string
	// SilentPaths do not drive the global busy signal.
	SilentPaths []string
	// QuietPaths never produce a user notification on failure.
	QuietPaths []string
}

func DefaultConfig(origin string) Config {
	return Config{
		Origin:      origin,
		Namespace:   "/api",
		Timeout:     15 * time.Second,
		AuthPath:    "/api/v1/auth/",
		SilentPaths: []string{"/fx/rate", "/balance", "/transactions"},
		QuietPaths:  []string{"/fx/rate"},
	}
}

type Client struct {
	doer Doer
}

type options struct {
	transport Doer
}

type Option func(*options)

// WithTransport replaces the default *http.Client at the end of the chain.
func WithTransport(d Doer) Option {
	return func(o *options) { o.transport = d }
}

func New(cfg Config, tokens TokenSource, busy *loading.Tracker, notifier notify.Notifier, log logger.Logger, opts ...Option) (*Client, error) {
	origin, err := url.Parse(cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("parse api origin: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("api origin must be absolute: %q", cfg.Origin)
	}

	o := options{transport: &http.Client{Timeout: cfg.Timeout}}
	for _, opt := range opts {
		opt(&o)
	}

	doer := Chain(o.transport,
		Busy(busy, cfg.SilentPaths),
		Instrument(),
		Normalize(notifier, cfg.QuietPaths, log),
		BaseURL(origin, cfg.Namespace),
		Auth(tokens, cfg.AuthPath, log),
	)

	return &Client{doer: doer}, nil
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.doer.Do(req)
}
