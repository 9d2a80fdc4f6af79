// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	// MinPasswordLength is the shortest accepted plaintext password.
	MinPasswordLength = 8

	// MaxPasswordLength is the bcrypt input limit. Longer input is silently
	// truncated by bcrypt, so it is rejected instead.
	MaxPasswordLength = 72

	// MaxPseudoLength bounds the public display name.
	MaxPseudoLength = 64

	// LoginResultSuccess, LoginResultInvalid and LoginResultError label the
	// login attempts metric.
	LoginResultSuccess = "success"
	LoginResultInvalid = "invalid_credentials"
	LoginResultError   = "error"
)
