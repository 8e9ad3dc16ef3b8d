package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/stratacdn/go/logging"
	"github.com/stratacdn/go/version"
)

// maxErrorBodyBytes caps how much of a failing response body is captured
// into an APIError.
const maxErrorBodyBytes = 64 << 10

// Do issues a single logical API request and returns the response on success
// (any 2xx status). Retry-eligible requests are re-attempted by the engine up
// to the client's retry limit; the terminal non-2xx response is converted to
// an *APIError carrying its status and body. The caller owns resp.Body on
// success.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	u, err := c.resolveURL(path)
	if err != nil {
		return nil, err
	}

	ctx = withRequestMethod(ctx, method)

	// retryablehttp rewinds []byte bodies between attempts.
	var raw any
	if body != nil {
		raw = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, raw)
	if err != nil {
		return nil, fmt.Errorf("api: build %s %s: %w", method, u, err)
	}

	req.Header.Set("AccessKey", c.accessKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Request-ID", ksuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("issuing request", append(
		logging.GetFields(ctx),
		zap.String("method", method),
		zap.String("url", u),
	)...)

	resp, err := c.engine.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		captured, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{
			Method: method,
			URL:    u,
			Status: resp.StatusCode,
			Body:   captured,
		}
	}
	return resp, nil
}

// Get fetches path and, when out is non-nil, decodes the JSON response into
// it.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post creates a resource from in. POST is never retried.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

// Put replaces a resource with in.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

// Patch applies a partial update from in. PATCH is never retried.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, in, out)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s %s body: %w", method, path, err)
		}
		body = b
	}

	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) resolveURL(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("api: invalid path %q: %w", path, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}
