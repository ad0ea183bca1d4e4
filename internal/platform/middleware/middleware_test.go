// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledinhhoang/inkbound/internal/platform/constants"
	"github.com/ledinhhoang/inkbound/internal/platform/middleware"
)

// corsConfig is a minimal [middleware.AppConfig] for CORS tests.
type corsConfig struct {
	development bool
	origins     []string
}

func (c corsConfig) IsDevelopment() bool      { return c.development }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

func noopHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestRequestID verifies a correlation ID is generated and echoed on the
response header, and that a client-provided ID is preserved.
*/
func TestRequestID(t *testing.T) {
	handler := middleware.RequestID()(noopHandler())

	t.Run("generates_when_missing", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)

		handler.ServeHTTP(recorder, request)

		assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
	})

	t.Run("preserves_client_id", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRequestID, "client-supplied-id")

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, "client-supplied-id", recorder.Header().Get(constants.HeaderXRequestID))
	})
}

/*
TestRealIP verifies proxy header precedence over the direct connection address.
*/
func TestRealIP(t *testing.T) {
	t.Run("x_real_ip_first", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRealIP, "203.0.113.7")
		request.Header.Set(constants.HeaderXForwardedFor, "198.51.100.1, 10.0.0.1")

		assert.Equal(t, "203.0.113.7", middleware.RealIP(request))
	})

	t.Run("forwarded_for_fallback", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXForwardedFor, "198.51.100.1, 10.0.0.1")

		assert.Equal(t, "198.51.100.1", middleware.RealIP(request))
	})

	t.Run("remote_addr_fallback", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "192.0.2.9:52814"

		assert.Equal(t, "192.0.2.9", middleware.RealIP(request))
	})
}

/*
TestCORS verifies origin allow-listing in production mode and the open policy
in development.
*/
func TestCORS(t *testing.T) {
	t.Run("production_allows_configured_origin", func(t *testing.T) {
		handler := middleware.CORS(corsConfig{origins: []string{"https://partner.example.com"}})(noopHandler())

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderOrigin, "https://partner.example.com")

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, "https://partner.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("production_rejects_unknown_origin", func(t *testing.T) {
		handler := middleware.CORS(corsConfig{})(noopHandler())

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderOrigin, "https://evil.example.com")

		handler.ServeHTTP(recorder, request)

		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("development_allows_any_origin", func(t *testing.T) {
		handler := middleware.CORS(corsConfig{development: true})(noopHandler())

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderOrigin, "http://localhost:3000")

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight_short_circuits", func(t *testing.T) {
		handler := middleware.CORS(corsConfig{development: true})(noopHandler())

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodOptions, "/", nil)
		request.Header.Set(constants.HeaderOrigin, "http://localhost:3000")

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})
}
