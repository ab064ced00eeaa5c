// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/songatlas/internal/platform/middleware"
	"github.com/taibuivan/songatlas/internal/platform/respond"
)

/*
TestRateLimit_Throttles serves the burst, then answers with the standard
error envelope and a Retry-After hint.
*/
func TestRateLimit_Throttles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handler := middleware.RateLimit(ctx, middleware.RateLimitConfig{RequestsPerSecond: 1, Burst: 1})(
		http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}),
	)

	call := func() *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/api/v1/filter/location/countries", nil)
		request.RemoteAddr = "198.51.100.7:5000"
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, call().Code)

	throttled := call()
	require.Equal(t, http.StatusTooManyRequests, throttled.Code)
	assert.Equal(t, "1", throttled.Header().Get("Retry-After"))

	var body respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(throttled.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMITED", body.Code)
}
