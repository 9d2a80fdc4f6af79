// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values shared across layers: server
// timing, throttling, auth transport names and storage key prefixes.
//
// Anything an operator may want to change per deployment lives in package
// config instead.
package constants

import "time"

const (
	AppName    = "cursus-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute

	// GlobalRequestTimeout bounds a whole request, SQL statements included.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the drain period for in-flight requests.
	ShutdownTimeout = 30 * time.Second
)

// # Throttling

const (
	// LoginRateLimit credential attempts are allowed per IP per LoginRateWindow.
	LoginRateLimit  = 10
	LoginRateWindow = time.Minute

	// Global per-IP token bucket.
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	// Idle buckets are dropped after RateLimitClientTTL, checked every
	// RateLimitCleanupInterval.
	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Auth Transport

const (
	// RefreshTokenBytes is the entropy of an opaque refresh token.
	RefreshTokenBytes = 32

	BearerScheme = "Bearer"

	// The refresh cookie is only sent to the auth routes.
	RefreshTokenCookieName = "refresh_token"
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderOrigin        = "Origin"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"

	// AllowedOriginSuffix is the production domain accepted by CORS.
	AllowedOriginSuffix = ".cursus.app"
)

// # Health Payload Keys

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Keys

const (
	// RedisPrefixRefreshToken + digest holds one refresh session.
	RedisPrefixRefreshToken = "auth:refresh_token:"

	// RedisPrefixUserSessions + user ID holds the set of that user's digests.
	RedisPrefixUserSessions = "auth:user_sessions:"
)
