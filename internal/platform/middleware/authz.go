// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/ctxutil"
	"github.com/taibuivan/cursus/internal/platform/respond"
	"github.com/taibuivan/cursus/internal/platform/sec"
)

// Client-facing rejection messages. The 401 text is identical for every
// cause so clients cannot tell a forged token from an expired one.
const (
	msgAuthenticationRequired = "Authentication required"
	msgInsufficientPermission = "Insufficient permissions"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
// [*sec.TokenCodec] satisfies it.
type TokenVerifier interface {
	Verify(token string, now time.Time) (*sec.Claims, error)
}

// GateObserver receives one notification per gate evaluation.
type GateObserver interface {
	ObserveGate(state string, reason string)
}

// # Gate State Machine

// GateState is where a request ended up after passing through the gate.
//
//	Unauthenticated ──► Authenticated ──► Authorized
//	       │                   └────────► Forbidden
//	       └──────────► Rejected
type GateState uint8

const (
	StateUnauthenticated GateState = iota
	StateAuthenticated
	StateAuthorized
	StateForbidden
	StateRejected
)

func (s GateState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateAuthorized:
		return "authorized"
	case StateForbidden:
		return "forbidden"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Proceeds reports whether the wrapped operation may run.
func (s GateState) Proceeds() bool {
	return s == StateAuthenticated || s == StateAuthorized
}

// Outcome is the result of one gate evaluation.
// Claims is set for every state past Unauthenticated except Rejected.
type Outcome struct {
	State  GateState
	Claims *sec.Claims
	Err    error
}

// # Gate

// Gate authenticates requests and enforces per-route role requirements.
//
// A Gate holds no per-request state and is safe for concurrent use.
type Gate struct {
	verifier TokenVerifier
	carrier  Carrier
	now      func() time.Time
	observer GateObserver
}

// GateOption customizes a [Gate].
type GateOption func(*Gate)

// WithClock replaces the wall clock. Tests use it to pin expiry decisions.
func WithClock(now func() time.Time) GateOption {
	return func(gate *Gate) { gate.now = now }
}

// WithObserver reports every outcome to observer (typically Prometheus).
func WithObserver(observer GateObserver) GateOption {
	return func(gate *Gate) { gate.observer = observer }
}

// NewGate builds a gate reading tokens through carrier.
func NewGate(verifier TokenVerifier, carrier Carrier, options ...GateOption) *Gate {
	gate := &Gate{verifier: verifier, carrier: carrier, now: time.Now}
	for _, option := range options {
		option(gate)
	}
	return gate
}

// Authenticate is the first stage: extract the token and verify it against a
// single clock reading.
//
// Errors are [sec.ErrMissingToken] or whatever the verifier returned.
func (gate *Gate) Authenticate(request *http.Request) (*sec.Claims, error) {
	token, ok := gate.carrier.Extract(request)
	if !ok {
		return nil, sec.ErrMissingToken
	}

	claims, err := gate.verifier.Verify(token, gate.now())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// AuthorizeClaims is the second stage. It returns nil when claims satisfy
// required, [sec.ErrInsufficientRole] on a denial and [sec.ErrMalformed] when
// the role claim does not decode.
func AuthorizeClaims(claims *sec.Claims, required []sec.Role) error {
	switch sec.Authorize(claims.Role, required) {
	case sec.Allow:
		return nil
	case sec.Malformed:
		return fmt.Errorf("%w: role claim %q", sec.ErrMalformed, claims.Role)
	default:
		return sec.ErrInsufficientRole
	}
}

// Evaluate runs both stages for request against required.
// It performs no I/O beyond reading the request.
func (gate *Gate) Evaluate(request *http.Request, required []sec.Role) Outcome {
	claims, err := gate.Authenticate(request)
	if err != nil {
		return Outcome{State: StateRejected, Err: err}
	}

	if len(required) == 0 {
		return Outcome{State: StateAuthenticated, Claims: claims}
	}

	if err := AuthorizeClaims(claims, required); err != nil {
		return Outcome{State: StateForbidden, Claims: claims, Err: err}
	}
	return Outcome{State: StateAuthorized, Claims: claims}
}

// Require returns a middleware that admits only requests whose token is
// valid and, when roles are given, holds at least one of them (an admin
// holds all of them). With no roles it only requires authentication.
//
// # Responses
//   - Rejected: 401 UNAUTHORIZED, generic message.
//   - Forbidden: 403 FORBIDDEN.
//   - Otherwise the claims are attached to the context and next runs.
func (gate *Gate) Require(roles ...sec.Role) func(http.Handler) http.Handler {
	required := append([]sec.Role(nil), roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			logger := ctxutil.Logger(ctx)

			// ── 1. Evaluate ───────────────────────────────────────────────────
			outcome := gate.Evaluate(request, required)
			reason := sec.Reason(outcome.Err)
			gate.observe(outcome.State, reason)

			switch outcome.State {

			// ── 2. Authentication Failure ─────────────────────────────────────
			case StateRejected:
				logger.WarnContext(ctx, "gate_rejected",
					slog.String("reason", reason),
					slog.Any("error", outcome.Err),
				)
				respond.Error(writer, request, apperr.Unauthorized(msgAuthenticationRequired))
				return

			// ── 3. Authorization Failure ──────────────────────────────────────
			case StateForbidden:
				level := slog.LevelWarn
				if errors.Is(outcome.Err, sec.ErrMalformed) {
					// A signed token with a bad role code means corrupt data upstream.
					level = slog.LevelError
				}
				logger.Log(ctx, level, "gate_forbidden",
					slog.String("reason", reason),
					slog.String("subject", outcome.Claims.Subject),
					slog.String("role", outcome.Claims.Role),
					slog.String("required", fmt.Sprint(required)),
				)
				respond.Error(writer, request, apperr.Forbidden(msgInsufficientPermission))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			next.ServeHTTP(writer, request.WithContext(gate.attach(request, outcome.Claims)))
		})
	}
}

// Identify is the optional-authentication variant for public routes.
//
// A valid token attaches claims exactly like [Gate.Require]. A missing or
// invalid token lets the request through as anonymous; the handler decides
// whether that matters.
func (gate *Gate) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims, err := gate.Authenticate(request)
		if err != nil {
			if !errors.Is(err, sec.ErrMissingToken) {
				ctxutil.Logger(request.Context()).DebugContext(request.Context(), "gate_identify_ignored_token",
					slog.String("reason", sec.Reason(err)),
				)
			}
			next.ServeHTTP(writer, request)
			return
		}

		gate.observe(StateAuthenticated, sec.Reason(nil))
		next.ServeHTTP(writer, request.WithContext(gate.attach(request, claims)))
	})
}

// attach stores claims and tags the request logger with the subject.
func (gate *Gate) attach(request *http.Request, claims *sec.Claims) context.Context {
	ctx := ctxutil.WithClaims(request.Context(), claims)
	logger := ctxutil.Logger(ctx).With(slog.String("subject", claims.Subject))
	return ctxutil.WithLogger(ctx, logger)
}

func (gate *Gate) observe(state GateState, reason string) {
	if gate.observer != nil {
		gate.observer.ObserveGate(state.String(), reason)
	}
}
