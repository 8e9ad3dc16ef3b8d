// Package httpclient collects conventions for the construction of the HTTP
// transports used by the SDK.
//
// Transports built here are instrumented to emit OTel spans, but trace
// context is never propagated to the vendor: the API is a third-party
// endpoint, and internal trace identifiers should not cross that boundary.
package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
)

// ConnectTimeout bounds connection establishment, separately from any
// per-attempt request timeout.
const ConnectTimeout = 5 * time.Second

// DefaultTransport returns the round tripper used by api.New when no
// override is given: a pooled transport tuned for repeated calls to a single
// API host.
func DefaultTransport() http.RoundTripper {
	return instrument(pooledTransport())
}

// TransportWithProxy returns DefaultTransport routed through the given egress
// proxy instead of the environment's.
func TransportWithProxy(proxy func(*http.Request) (*url.URL, error)) http.RoundTripper {
	transport := pooledTransport()
	transport.Proxy = proxy
	return instrument(transport)
}

func instrument(transport *http.Transport) http.RoundTripper {
	// A no-op propagator keeps trace context out of outbound headers.
	noopPropagator := propagation.NewCompositeTextMapPropagator()
	return otelhttp.NewTransport(transport, otelhttp.WithPropagators(noopPropagator))
}

func pooledTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,

		// Everything goes to one API host, so the per-host pool is the pool.
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
