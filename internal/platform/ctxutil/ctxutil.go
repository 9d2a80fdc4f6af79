// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores per-request values in a [context.Context].
//
// Each value has its own unexported key type, so no other package can read or
// overwrite an entry except through these accessors. Only middleware writes;
// handlers and services read.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/cursus/internal/platform/sec"
)

type (
	requestIDKey struct{}
	loggerKey    struct{}
	claimsKey    struct{}
)

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation value, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the request-scoped logger, falling back to [slog.Default].
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithClaims attaches the verified access token claims. The gate is the only writer.
func WithClaims(ctx context.Context, claims *sec.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Claims returns the verified claims, or nil on routes the gate did not admit.
func Claims(ctx context.Context) *sec.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*sec.Claims)
	return claims
}
