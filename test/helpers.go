package test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func Context(t testing.TB) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx
}

// Server starts an HTTP test server that is shut down when the test ends.
func Server(t testing.TB, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}
