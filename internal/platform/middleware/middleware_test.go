// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/librarium/internal/platform/middleware"
)

// stubConfig satisfies [middleware.AppConfig] for exercising the CORS policy.
type stubConfig struct {
	development  bool
	extraOrigins []string
}

func (cfg *stubConfig) IsDevelopment() bool      { return cfg.development }
func (cfg *stubConfig) AllowedOrigins() []string { return cfg.extraOrigins }

func runCORS(t *testing.T, cfg *stubConfig, origin string) *httptest.ResponseRecorder {
	t.Helper()

	handler := middleware.CORS(cfg)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	if origin != "" {
		request.Header.Set("Origin", origin)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestCORS_Production verifies the production allow-list: the librarium.app
domain and any configured extra origins pass, everything else is refused.
*/
func TestCORS_Production(t *testing.T) {
	cfg := &stubConfig{extraOrigins: []string{"https://staging.example.com"}}

	t.Run("librarium.app domain allowed", func(t *testing.T) {
		recorder := runCORS(t, cfg, "https://www.librarium.app")
		assert.Equal(t, "https://www.librarium.app", recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("configured extra origin allowed", func(t *testing.T) {
		recorder := runCORS(t, cfg, "https://staging.example.com")
		assert.Equal(t, "https://staging.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin refused", func(t *testing.T) {
		recorder := runCORS(t, cfg, "https://evil.example.com")
		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("no origin header passes through", func(t *testing.T) {
		recorder := runCORS(t, cfg, "")
		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

/*
TestCORS_Development verifies that development mode allows any origin.
*/
func TestCORS_Development(t *testing.T) {
	cfg := &stubConfig{development: true}

	recorder := runCORS(t, cfg, "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
}
