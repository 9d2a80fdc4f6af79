// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "errors"

// # Authentication Error Taxonomy

// These sentinels are the only failure causes produced by the token and role
// primitives. They are recovered at the HTTP gate and never reach handlers.
// Match them with [errors.Is]; verification errors wrap the library cause.
var (
	// ErrMissingToken means the request carried no token at all.
	ErrMissingToken = errors.New("sec: missing token")

	// ErrMalformed means the token or a role code is structurally invalid.
	ErrMalformed = errors.New("sec: malformed")

	// ErrSignatureInvalid means the MAC did not match under the process secret.
	ErrSignatureInvalid = errors.New("sec: signature invalid")

	// ErrExpired means the verification instant is at or past the expiry.
	ErrExpired = errors.New("sec: token expired")

	// ErrInsufficientRole means the caller is authenticated but lacks every required role.
	ErrInsufficientRole = errors.New("sec: insufficient role")
)

// Reason maps an authentication or authorization error to a short, stable
// label used by logs and metrics. Unknown errors fall back to "error".
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInsufficientRole):
		return "insufficient_role"
	default:
		return "error"
	}
}
