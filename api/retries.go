package api

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Engine wait bounds. With the default backoff and a retry limit of 3 the
// inter-attempt delays are 100ms, 200ms, 400ms.
const (
	retryWaitMin = 100 * time.Millisecond
	retryWaitMax = 2 * time.Second
)

// retryMethods is the closed set of HTTP methods eligible for automatic
// retry: the idempotent methods. POST and PATCH are absent on purpose — a
// write that may have partially succeeded must not be silently replayed.
var retryMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// retryStatuses is the closed set of response codes treated as transient:
// request timeout, rate limiting, and server-side failures. Client errors
// such as 400, 401 or 403 mean the request itself is wrong, so retrying
// cannot help.
var retryStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

type contextKey int

const requestMethodKey contextKey = iota

// withRequestMethod records the request method so that checkRetry can apply
// the method allow-list even when a transport fault leaves no response to
// inspect.
func withRequestMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, requestMethodKey, method)
}

func requestMethod(ctx context.Context, resp *http.Response) string {
	if m, ok := ctx.Value(requestMethodKey).(string); ok {
		return m
	}
	if resp != nil && resp.Request != nil {
		return resp.Request.Method
	}
	return ""
}

// checkRetry is the engine's retry-eligibility predicate. It is a pure
// function of (method, status or error): it holds no counters and decides
// nothing about timing. Attempt counting stays with the engine, which stops
// at the client's retry limit regardless of what checkRetry returns.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if !retryMethods[requestMethod(ctx, resp)] {
		return false, nil
	}
	if err != nil {
		// Transport faults carry no status; defer to the engine's
		// classification of transient connection errors.
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if resp == nil {
		return false, nil
	}
	return retryStatuses[resp.StatusCode], nil
}

// newRetryableClient builds the retry engine from resolved options. The
// passthrough error handler keeps the last response intact so callers always
// see the terminal status and body.
func newRetryableClient(resolved Options) *retryablehttp.Client {
	logger := resolved.Logger
	return &retryablehttp.Client{
		HTTPClient: &http.Client{
			Transport: resolved.Transport,
			Timeout:   resolved.RequestTimeout,
		},
		Logger:       nil, // retry visibility comes from RequestLogHook below
		RetryWaitMin: retryWaitMin,
		RetryWaitMax: retryWaitMax,
		RetryMax:     *resolved.RetryLimit,
		CheckRetry:   checkRetry,
		Backoff:      resolved.Backoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
		RequestLogHook: func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			if attempt > 0 {
				logger.Debug("retrying request",
					zap.String("method", req.Method),
					zap.String("url", req.URL.String()),
					zap.Int("attempt", attempt+1),
				)
			}
		},
	}
}
