// Package api provides a pre-configured HTTP client for the Strata CDN API.
//
// The client wraps github.com/hashicorp/go-retryablehttp: connection
// handling, backoff timing and attempt bookkeeping belong to the engine,
// while this package supplies the base URL binding, the resolved timeout and
// retry limit, and the retry-eligibility policy consumed by the engine's
// retry hook.
package api

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/stratacdn/go/httpclient"
	"github.com/stratacdn/go/logging"
	"github.com/stratacdn/go/types/ptr"
)

const (
	// DefaultRequestTimeout bounds a single request attempt.
	DefaultRequestTimeout = 5 * time.Second

	// DefaultRetryLimit is the number of retries made after the initial
	// attempt when a request is retry-eligible.
	DefaultRetryLimit = 3
)

// Options configures a Client. A nil *Options behaves exactly like a pointer
// to the zero value: every field falls back to its default.
type Options struct {
	// RequestTimeout bounds a single attempt, including connection setup. A
	// zero value is equivalent to leaving the field unset: the default of
	// DefaultRequestTimeout applies.
	RequestTimeout time.Duration

	// RetryLimit is the maximum number of retries after the initial attempt.
	// A nil value is equivalent to leaving the field unset: the default of
	// DefaultRetryLimit applies. ptr.To(0) disables retries entirely.
	RetryLimit *int

	// Backoff overrides the delay curve between attempts. It only shapes the
	// waits; it never changes how many attempts are made. If nil, the
	// engine's default exponential backoff is used.
	Backoff retryablehttp.Backoff

	// Transport overrides the underlying round tripper. If nil,
	// httpclient.DefaultTransport() is used.
	Transport http.RoundTripper

	// Logger receives retry activity at debug level. If nil, a logger named
	// "api" is used.
	Logger *zap.Logger
}

// resolve merges o with the package defaults. The merge is an explicit
// null-coalescing step: for each field, the "undefined" value (zero duration,
// nil pointer) and an omitted field select the same default.
func (o *Options) resolve() Options {
	resolved := Options{}
	if o != nil {
		resolved = *o
	}
	if resolved.RequestTimeout == 0 {
		resolved.RequestTimeout = DefaultRequestTimeout
	}
	resolved.RetryLimit = ptr.To(ptr.Deref(resolved.RetryLimit, DefaultRetryLimit))
	if resolved.Backoff == nil {
		resolved.Backoff = retryablehttp.DefaultBackoff
	}
	if resolved.Transport == nil {
		resolved.Transport = httpclient.DefaultTransport()
	}
	if resolved.Logger == nil {
		resolved.Logger = logging.New("api")
	}
	return resolved
}

// Client talks to the Strata CDN API. Each call to New produces an
// independent client: clients share no mutable state, and concurrent
// requests on one client carry their own attempt counters inside the engine,
// so they retry independently without contention.
type Client struct {
	base      *url.URL
	accessKey string

	timeout    time.Duration
	retryLimit int

	engine *retryablehttp.Client
	logger *zap.Logger
}

// New returns a Client bound to baseURL and authenticated with accessKey.
// opts may be nil. When accessKey is empty it returns ErrMissingAccessKey
// before any client or network resource is constructed; no request is ever
// issued on that path.
func New(accessKey, baseURL string, opts *Options) (*Client, error) {
	if accessKey == "" {
		return nil, ErrMissingAccessKey
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url %q: %w", baseURL, err)
	}

	resolved := opts.resolve()

	return &Client{
		base:       base,
		accessKey:  accessKey,
		timeout:    resolved.RequestTimeout,
		retryLimit: *resolved.RetryLimit,
		engine:     newRetryableClient(resolved),
		logger:     resolved.Logger,
	}, nil
}

// RequestTimeout reports the resolved per-attempt timeout.
func (c *Client) RequestTimeout() time.Duration { return c.timeout }

// RetryLimit reports the resolved maximum number of retries.
func (c *Client) RetryLimit() int { return c.retryLimit }

// BaseURL reports the URL the client was bound to.
func (c *Client) BaseURL() string { return c.base.String() }
