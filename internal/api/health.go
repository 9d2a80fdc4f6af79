// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/cursus/internal/platform/constants"
	"github.com/taibuivan/cursus/internal/platform/respond"
)

// readinessTimeout bounds the whole /ready probe.
const readinessTimeout = 2 * time.Second

// HealthDependencies are the pings behind /ready. A nil check is skipped.
type HealthDependencies struct {
	CheckDatabase func(ctx context.Context) error
	CheckCache    func(ctx context.Context) error
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

/*
NewHealthHandlers returns the /health and /ready handlers.

Liveness answers 200 while the process runs. Readiness pings every
dependency concurrently and answers 503 "degraded" if any fails, so the
orchestrator stops routing traffic without restarting the pod.
*/
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	checks := []struct {
		name  string
		check func(ctx context.Context) error
	}{
		{"postgres", deps.CheckDatabase},
		{"redis", deps.CheckCache},
	}

	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, map[string]string{
			constants.FieldStatus:  "ok",
			constants.FieldApp:     constants.AppName,
			constants.FieldVersion: constants.AppVersion,
		})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		defer cancel()

		results := make([]checkResult, len(checks))
		var group errgroup.Group
		for index, dependency := range checks {
			results[index] = checkResult{Name: dependency.name, IsOK: true}
			if dependency.check == nil {
				continue
			}
			group.Go(func() error {
				if err := dependency.check(ctx); err != nil {
					results[index].IsOK = false
					results[index].Error = err.Error()
					logger.ErrorContext(ctx, "readiness_check_failed",
						slog.String("dependency", dependency.name),
						slog.Any("error", err),
					)
				}
				return nil
			})
		}
		_ = group.Wait()

		status, httpStatus := "ready", http.StatusOK
		for _, result := range results {
			if !result.IsOK {
				status, httpStatus = "degraded", http.StatusServiceUnavailable
				break
			}
		}

		respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
			constants.FieldStatus: status,
			constants.FieldChecks: results,
		}})
	}

	return liveness, readiness
}
