// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/songatlas/internal/platform/constants"
	"github.com/taibuivan/songatlas/internal/platform/respond"
)

// probeTimeout bounds each dependency check of the readiness probe.
const probeTimeout = 2 * time.Second

// HealthDependencies holds the injectable dependency checkers for the readiness probe.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool. A failure makes the service unready.
	CheckDatabase func(ctx context.Context) error

	// CheckCache pings the cache backend. A failure is reported but the
	// service stays ready, because reads fall back to live queries.
	CheckCache func(ctx context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name     string `json:"name"`
	IsOK     bool   `json:"ok"`
	Required bool   `json:"required"`
	Error    string `json:"error,omitempty"`
}

// NewHealthHandlers creates the liveness and readiness http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health/live.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness handles GET /health/ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 2)
	isReady, isDegraded := true, false

	if check := handler.dependencies.CheckDatabase; check != nil {
		result := handler.probe(request.Context(), "postgres", true, check)
		isReady = result.IsOK
		results = append(results, result)
	}

	if check := handler.dependencies.CheckCache; check != nil {
		result := handler.probe(request.Context(), "cache", false, check)
		isDegraded = !result.IsOK
		results = append(results, result)
	}

	status, httpStatus := "ready", http.StatusOK
	switch {
	case !isReady:
		status, httpStatus = "unavailable", http.StatusServiceUnavailable
	case isDegraded:
		status = "degraded"
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}

func (handler *healthHandler) probe(ctx context.Context, name string, required bool, check func(context.Context) error) checkResult {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	result := checkResult{Name: name, IsOK: true, Required: required}
	if err := check(ctx); err != nil {
		result.IsOK = false
		result.Error = err.Error()
		handler.logger.Error("readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
	}
	return result
}
