// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/songatlas/internal/platform/apperr"
)

/*
TestConstructors checks the status and code pairing of each error kind.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not found", apperr.NotFound("Countries"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperr.Conflict("blocked"), http.StatusConflict, "CONFLICT"},
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"timeout", apperr.Timeout(context.DeadlineExceeded), http.StatusGatewayTimeout, "QUERY_TIMEOUT"},
		{"rate limited", apperr.RateLimited(1), http.StatusTooManyRequests, "RATE_LIMITED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}

	assert.Equal(t, "Countries not found", apperr.NotFound("Countries").Message)
}

/*
TestAs_TraversesWrapping ensures wrapped application errors are still found.
*/
func TestAs_TraversesWrapping(t *testing.T) {
	base := apperr.Timeout(context.DeadlineExceeded)
	wrapped := fmt.Errorf("facet: %w", base)

	found := apperr.As(wrapped)
	require.NotNil(t, found)
	assert.Equal(t, "QUERY_TIMEOUT", found.Code)
	assert.True(t, errors.Is(wrapped, context.DeadlineExceeded))
	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestWithMeta verifies that structured context is attached in place.
*/
func TestWithMeta(t *testing.T) {
	err := apperr.Conflict("blocked").WithMeta(map[string]int{"blocking_total": 3})
	assert.Equal(t, map[string]int{"blocking_total": 3}, err.Meta)
}
