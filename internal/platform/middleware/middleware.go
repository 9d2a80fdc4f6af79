// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP chain that runs before any domain handler.

Order, outermost first, as mounted by the api package:

	TrustedProxies → RequestID → StructuredLogger → metrics → SecureHeaders → CORS
	→ timeout → RateLimit → PanicRecovery → (per route) Gate

The [Gate] is the only authentication and authorization point: every
protected route declares its required roles through [Gate.Require].
*/
package middleware

// AppConfig is the part of the configuration that changes middleware behavior.
type AppConfig interface {
	IsDevelopment() bool
	IsProduction() bool
}
